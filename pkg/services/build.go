package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"newspage/pkg/apperr"
	"newspage/pkg/config"
	"newspage/pkg/logfields"
	"newspage/pkg/models"
)

// Fixed output layout.
const (
	indexTemplate   = "index.html"
	articleTemplate = "article.html"
	scriptsDir      = "js"
	articlesJSON    = "articles.json"
	configJSON      = "config.json"
)

// BuildOptions tune a single build.
type BuildOptions struct {
	// Atomic builds into a sibling directory and swaps it into place, so
	// readers never see a half-written output.
	Atomic bool
}

// Builder turns the catalog and site configuration into a static site.
type Builder struct {
	ws      *Workspace
	catalog *Catalog
}

func NewBuilder(ws *Workspace, catalog *Catalog) *Builder {
	return &Builder{ws: ws, catalog: catalog}
}

// Build writes the complete static site into outputDir. It can be re-run
// at any time; unchanged inputs give identical JSON documents.
func (b *Builder) Build(ctx context.Context, outputDir string, opts BuildOptions) (err error) {
	start := time.Now()
	count := 0
	log := b.ws.logger().With(logfields.Output(outputDir))
	defer func() {
		elapsed := time.Since(start)
		b.ws.recorder().ObserveBuild(elapsed, count, err)
		if err != nil {
			log.Error("Site build failed", logfields.Error(err))
			return
		}
		log.Info("Site built", logfields.Count(count), logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	}()

	cfg := LoadSiteConfig(b.ws)
	articles, err := b.catalog.Build(ctx)
	if err != nil {
		return apperr.Build(err, "build article catalog")
	}

	log.Debug("Bundling frontend scripts", logfields.Stage("bundle"))
	scripts, err := Bundle(b.ws.Assets, siteEntries, true)
	if err != nil {
		return err
	}

	target := outputDir
	if opts.Atomic {
		if err := os.MkdirAll(filepath.Dir(outputDir), 0o755); err != nil {
			return apperr.Build(err, "prepare output parent")
		}
		target, err = os.MkdirTemp(filepath.Dir(outputDir), "."+filepath.Base(outputDir)+"-build-")
		if err != nil {
			return apperr.Build(err, "create staging directory")
		}
	}

	if err := b.writeSite(target, cfg, articles, scripts); err != nil {
		if opts.Atomic {
			_ = os.RemoveAll(target)
		}
		return err
	}

	if opts.Atomic {
		if err := swapDir(target, outputDir); err != nil {
			_ = os.RemoveAll(target)
			return apperr.Build(err, "publish build output")
		}
	}
	count = len(articles)
	return nil
}

func (b *Builder) writeSite(dir string, cfg models.SiteConfig, articles []models.Article, scripts []Script) error {
	if err := os.MkdirAll(filepath.Join(dir, scriptsDir), 0o755); err != nil {
		return apperr.Build(err, "create output directory")
	}
	if err := writeScripts(filepath.Join(dir, scriptsDir), scripts); err != nil {
		return err
	}

	replacer := strings.NewReplacer(
		"{{SITE_TITLE}}", cfg.Title,
		"{{SITE_DESCRIPTION}}", cfg.Description,
		"{{THEME}}", cfg.Theme,
	)
	for _, name := range []string{indexTemplate, articleTemplate} {
		tmpl, err := fs.ReadFile(b.ws.Assets, name)
		if err != nil {
			return apperr.Build(err, "read template %s", name)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(replacer.Replace(string(tmpl))), 0o644); err != nil {
			return apperr.Build(err, "write %s", name)
		}
	}

	for _, theme := range DefaultThemes {
		name := themesDir + "/" + theme + ".css"
		if err := copyAsset(b.ws.Assets, name, filepath.Join(dir, themesDir, theme+".css")); err != nil {
			return apperr.Build(err, "copy theme %s", theme)
		}
	}

	if _, err := os.Stat(b.ws.UploadsDir()); err == nil {
		if err := copyDirContents(b.ws.UploadsDir(), filepath.Join(dir, config.UploadsDir)); err != nil {
			return apperr.Build(err, "copy uploads")
		}
	}

	public := models.PublicSiteConfig{Title: cfg.Title, Theme: cfg.Theme, Description: cfg.Description}
	if err := writeJSON(filepath.Join(dir, configJSON), public); err != nil {
		return apperr.Build(err, "write %s", configJSON)
	}
	if err := writeJSON(filepath.Join(dir, articlesJSON), articles); err != nil {
		return apperr.Build(err, "write %s", articlesJSON)
	}

	articlesOut := filepath.Join(dir, config.ArticlesDir)
	if err := os.MkdirAll(articlesOut, 0o755); err != nil {
		return apperr.Build(err, "create %s", articlesOut)
	}
	for _, a := range articles {
		if err := copyFile(filepath.Join(b.ws.ArticlesDir(), a.Filename), filepath.Join(articlesOut, a.Filename)); err != nil {
			return apperr.Build(err, "copy article %s", a.Filename)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// swapDir replaces dst with src. The previous dst is removed afterwards.
func swapDir(src, dst string) error {
	old := ""
	if _, err := os.Stat(dst); err == nil {
		old = fmt.Sprintf("%s.old-%d", dst, time.Now().UnixNano())
		if err := os.Rename(dst, old); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		if old != "" {
			_ = os.Rename(old, dst)
		}
		return err
	}
	if old != "" {
		_ = os.RemoveAll(old)
	}
	return nil
}

func copyAsset(assets fs.FS, name, dst string) error {
	src, err := assets.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()
	return writeFrom(src, dst)
}

// copyDirContents recursively copies the contents of src into dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeFrom(f, dst)
}

func writeFrom(r io.Reader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

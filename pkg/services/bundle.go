package services

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"newspage/pkg/apperr"
)

const assetsNamespace = "assets"

// Entry is one script to bundle: Input is a path inside the assets FS and
// Output the bundle name without extension.
type Entry struct {
	Input  string
	Output string
}

// Script is a compiled browser bundle.
type Script struct {
	Name     string
	Contents []byte
}

var (
	siteEntries = []Entry{
		{Input: "frontend/index.ts", Output: "index"},
		{Input: "frontend/article.ts", Output: "article"},
	}
	editorEntry = Entry{Input: "frontend/editor.ts", Output: "editor-bundle"}
)

// Bundle compiles entry scripts from assets into browser IIFE bundles.
// Compiler diagnostics are returned verbatim in a build failure.
func Bundle(assets fs.FS, entries []Entry, minify bool) ([]Script, error) {
	points := make([]api.EntryPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, api.EntryPoint{InputPath: e.Input, OutputPath: e.Output})
	}

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: points,
		Bundle:              true,
		Write:               false,
		Outdir:              "js",
		Platform:            api.PlatformBrowser,
		Format:              api.FormatIIFE,
		Target:              api.ES2020,
		MinifyWhitespace:    minify,
		MinifyIdentifiers:   minify,
		MinifySyntax:        minify,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{assetsPlugin(assets)},
	})
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return nil, apperr.Build(fmt.Errorf("%s", strings.TrimSpace(strings.Join(msgs, ""))), "frontend build failed")
	}

	scripts := make([]Script, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		scripts = append(scripts, Script{Name: filepath.Base(f.Path), Contents: f.Contents})
	}
	return scripts, nil
}

// CompileEditorBundle compiles the editor script into a single browser bundle.
func CompileEditorBundle(ws *Workspace) ([]byte, error) {
	scripts, err := Bundle(ws.Assets, []Entry{editorEntry}, false)
	if err != nil {
		return nil, err
	}
	if len(scripts) != 1 {
		return nil, apperr.Build(nil, "editor bundle produced %d outputs", len(scripts))
	}
	return scripts[0].Contents, nil
}

func writeScripts(dir string, scripts []Script) error {
	for _, s := range scripts {
		if err := os.WriteFile(filepath.Join(dir, s.Name), s.Contents, 0o644); err != nil {
			return apperr.Build(err, "write %s", s.Name)
		}
	}
	return nil
}

// assetsPlugin resolves entry points and relative imports against the assets FS.
func assetsPlugin(assets fs.FS) api.Plugin {
	return api.Plugin{
		Name: assetsNamespace,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				target := args.Path
				if args.Kind != api.ResolveEntryPoint {
					if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
						return api.OnResolveResult{}, fmt.Errorf("cannot resolve %q: only relative imports are bundled", args.Path)
					}
					target = path.Join(path.Dir(args.Importer), target)
				}
				resolved, ok := resolveAsset(assets, path.Clean(target))
				if !ok {
					return api.OnResolveResult{}, fmt.Errorf("cannot resolve %q", args.Path)
				}
				return api.OnResolveResult{Path: resolved, Namespace: assetsNamespace}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: assetsNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				data, err := fs.ReadFile(assets, args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := string(data)
				loader := api.LoaderTS
				if path.Ext(args.Path) == ".js" {
					loader = api.LoaderJS
				}
				return api.OnLoadResult{Contents: &contents, Loader: loader}, nil
			})
		},
	}
}

func resolveAsset(assets fs.FS, p string) (string, bool) {
	for _, candidate := range []string{p, p + ".ts", p + ".js", path.Join(p, "index.ts")} {
		if info, err := fs.Stat(assets, candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

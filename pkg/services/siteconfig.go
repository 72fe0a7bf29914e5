package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"newspage/pkg/apperr"
	"newspage/pkg/logfields"
	"newspage/pkg/models"
)

// DefaultThemes is the theme set shipped with the site and the fallback
// when the theme directory cannot be read.
var DefaultThemes = []string{"guardian", "times", "tagesschau", "tech"}

const themesDir = "themes"

// InstalledThemes lists the theme stylesheets present in the assets.
func InstalledThemes(ws *Workspace) []string {
	entries, err := fs.ReadDir(ws.Assets, themesDir)
	if err != nil {
		ws.logger().Warn("Theme directory unreadable, using built-in list", logfields.Error(err))
		return slices.Clone(DefaultThemes)
	}

	var themes []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".css" {
			continue
		}
		themes = append(themes, strings.TrimSuffix(e.Name(), ".css"))
	}
	if len(themes) == 0 {
		return slices.Clone(DefaultThemes)
	}
	slices.Sort(themes)
	return themes
}

// LoadSiteConfig reads the site configuration. A missing or corrupt file
// yields the defaults; it never fails.
func LoadSiteConfig(ws *Workspace) models.SiteConfig {
	def := models.DefaultSiteConfig()
	content, err := os.ReadFile(ws.SiteConfigPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			ws.logger().Warn("Failed to read site config, using defaults", logfields.Path(ws.SiteConfigPath()), logfields.Error(err))
		}
		return def
	}

	var cfg models.SiteConfig
	if err := json.Unmarshal(content, &cfg); err != nil {
		ws.logger().Warn("Failed to parse site config, using defaults", logfields.Path(ws.SiteConfigPath()), logfields.Error(err))
		return def
	}

	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if !slices.Contains(InstalledThemes(ws), cfg.Theme) {
		if cfg.Theme != "" {
			ws.logger().Warn("Unknown theme in site config, using default", logfields.Theme(cfg.Theme))
		}
		cfg.Theme = def.Theme
	}
	return cfg
}

// SaveSiteConfig validates and persists the site configuration.
func SaveSiteConfig(ws *Workspace, cfg models.SiteConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return apperr.Validation("invalid site config: %v", err)
	}
	if themes := InstalledThemes(ws); !slices.Contains(themes, cfg.Theme) {
		return apperr.Validation("unknown theme %q (installed: %s)", cfg.Theme, strings.Join(themes, ", "))
	}

	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode site config: %w", err)
	}
	if err := os.WriteFile(ws.SiteConfigPath(), append(content, '\n'), 0o644); err != nil {
		return fmt.Errorf("write site config: %w", err)
	}
	return nil
}

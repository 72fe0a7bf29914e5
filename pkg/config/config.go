package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// SiteConfigFile is the site configuration document, relative to the root.
	SiteConfigFile = "newspage.config.json"
	ArticlesDir    = "articles"
	UploadsDir     = "uploads"
	// UploadsURLPrefix is the site-relative prefix of uploaded assets.
	UploadsURLPrefix = "/uploads/"
)

// Settings are the process-level options of the CLI and dev server.
type Settings struct {
	Root        string `yaml:"root" toml:"root" validate:"required"`
	Bind        string `yaml:"bind" toml:"bind"`
	Port        int    `yaml:"port" toml:"port" validate:"gte=1,lte=65535"`
	OutputDir   string `yaml:"output_dir" toml:"output_dir" validate:"required"`
	AssetsDir   string `yaml:"assets_dir" toml:"assets_dir"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency" validate:"gte=1"`
	LogLevel    string `yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		Root:        ".",
		Bind:        "127.0.0.1",
		Port:        3000,
		OutputDir:   ".newspage-dist",
		Concurrency: 20,
		LogLevel:    "info",
	}
}

// Load builds Settings from defaults, an optional settings file, a .env file
// and NEWSPAGE_* environment variables, in increasing precedence.
// A missing settings file is not an error.
func Load(path string) (*Settings, error) {
	// .env is optional.
	_ = godotenv.Load()

	s := Defaults()
	if path != "" {
		if err := loadFile(path, &s); err != nil {
			return nil, err
		}
	}
	applyEnv(&s)

	if !filepath.IsAbs(s.OutputDir) {
		s.OutputDir = filepath.Join(s.Root, s.OutputDir)
	}

	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

func loadFile(path string, s *Settings) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(content, s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, s)
	default:
		return fmt.Errorf("unsupported settings format: %s", path)
	}
	if err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}

func applyEnv(s *Settings) {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv("NEWSPAGE_" + key); v != "" {
			return v
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		if v := os.Getenv("NEWSPAGE_" + key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return fallback
	}

	s.Root = getEnv("ROOT", s.Root)
	s.Bind = getEnv("BIND", s.Bind)
	s.Port = getInt("PORT", s.Port)
	s.OutputDir = getEnv("OUTPUT_DIR", s.OutputDir)
	s.AssetsDir = getEnv("ASSETS_DIR", s.AssetsDir)
	s.Concurrency = getInt("CONCURRENCY", s.Concurrency)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)
}

// Addr is the listen address of the dev server.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

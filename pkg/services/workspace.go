package services

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"newspage/pkg/config"
	"newspage/pkg/metrics"
	"newspage/web"
)

// Workspace is the explicit context every store, catalog, builder and API
// operation runs against. Nothing in this package reads the process working
// directory.
type Workspace struct {
	Root        string
	Assets      fs.FS
	Logger      *slog.Logger
	Concurrency int
	Recorder    metrics.Recorder
	// Now is the clock used for default dates. Nil means time.Now.
	Now func() time.Time
}

// NewWorkspace builds a Workspace from process settings. The embedded assets
// are used unless settings point at an on-disk assets directory.
func NewWorkspace(s *config.Settings, logger *slog.Logger) *Workspace {
	var assets fs.FS = web.FS
	if s.AssetsDir != "" {
		assets = os.DirFS(s.AssetsDir)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		Root:        s.Root,
		Assets:      assets,
		Logger:      logger,
		Concurrency: s.Concurrency,
		Recorder:    metrics.NoopRecorder{},
	}
}

func (w *Workspace) ArticlesDir() string { return filepath.Join(w.Root, config.ArticlesDir) }

func (w *Workspace) UploadsDir() string { return filepath.Join(w.Root, config.UploadsDir) }

func (w *Workspace) SiteConfigPath() string { return filepath.Join(w.Root, config.SiteConfigFile) }

func (w *Workspace) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

func (w *Workspace) recorder() metrics.Recorder {
	if w.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return w.Recorder
}

func (w *Workspace) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Today is the current date in YYYY-MM-DD form (UTC).
func (w *Workspace) Today() string {
	return w.now().UTC().Format(dateLayout)
}

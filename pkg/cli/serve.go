package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newspage/pkg/handlers"
	"newspage/pkg/logfields"
	"newspage/pkg/metrics"
	"newspage/pkg/services"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd runs the dev server: the built site, the editor and its API.
type ServeCmd struct {
	Port  int  `short:"p" help:"Port to listen on (overrides settings)"`
	Watch bool `short:"w" help:"Rebuild the site when articles, uploads or the site config change"`
}

func (s *ServeCmd) Run(g *Global, _ *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx, g)
}

func (s *ServeCmd) serve(ctx context.Context, g *Global) error {
	settings := *g.Settings
	if s.Port != 0 {
		settings.Port = s.Port
	}

	rec := metrics.NewPrometheusRecorder()
	a := newApp(g, rec)
	out := settings.OutputDir

	if err := a.builder.Build(ctx, out, services.BuildOptions{Atomic: true}); err != nil {
		g.Logger.Warn("Initial build failed, serving previous output", logfields.Output(out), logfields.Error(err))
	}

	static := handlers.NewStatic(a.ws, out)
	if err := static.WarmEditorBundle(); err != nil {
		g.Logger.Warn("Editor bundle failed to compile, retrying on request", logfields.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterOptions{
		API:     handlers.NewAPI(a.editor, a.media, a.builder, out),
		Static:  static,
		Metrics: rec.Handler(),
	})
	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	if s.Watch {
		go func() {
			if err := a.builder.Watch(ctx, out); err != nil {
				g.Logger.Warn("File watcher stopped", logfields.Error(err))
			}
		}()
	}

	g.printf("NewsPage dev server running at http://localhost:%d\n", settings.Port)
	g.printf("Editor available at http://localhost:%d/editor\n", settings.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev server: %w", err)
	case <-ctx.Done():
		g.Logger.Info("Shutting down dev server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

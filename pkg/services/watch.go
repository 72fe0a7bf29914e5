package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"newspage/pkg/config"
	"newspage/pkg/logfields"
)

const rebuildDebounce = 500 * time.Millisecond

// Watch rebuilds outputDir atomically whenever articles, uploads or the site
// configuration change, until ctx is cancelled. Bursts of events collapse
// into one build; builds never overlap.
func (b *Builder) Watch(ctx context.Context, outputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	root := filepath.Clean(b.ws.Root)
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	for _, dir := range []string{b.ws.ArticlesDir(), b.ws.UploadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	rebuildReq := make(chan struct{}, 1)
	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDebounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	log := b.ws.logger()
	log.Info("Watching for content changes", logfields.Path(root))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				log.Info("Change detected, rebuilding site")
				// Build logs its own failure; the watcher keeps going.
				_ = b.Build(ctx, outputDir, BuildOptions{Atomic: true})
			}
		}
	}()
	defer wg.Wait()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !b.relevant(root, ev.Name) {
				continue
			}
			log.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// relevant reports whether a changed path feeds the build. In the root only
// the site configuration counts, which keeps the output and staging
// directories from retriggering builds.
func (b *Builder) relevant(root, name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	if filepath.Dir(filepath.Clean(name)) == root {
		return base == config.SiteConfigFile
	}
	return true
}

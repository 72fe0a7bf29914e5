package services

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newspage/web"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{
		Root:        t.TempDir(),
		Assets:      web.FS,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency: 4,
		Now:         func() time.Time { return testNow },
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeArticleFile(t *testing.T, ws *Workspace, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(ws.ArticlesDir(), name), content)
}

type testServices struct {
	ws      *Workspace
	store   *Store
	catalog *Catalog
	media   *Media
	editor  *Editor
	builder *Builder
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	ws := newTestWorkspace(t)
	store := NewStore(ws)
	catalog := NewCatalog(ws, store)
	media := NewMedia(ws)
	return &testServices{
		ws:      ws,
		store:   store,
		catalog: catalog,
		media:   media,
		editor:  NewEditor(ws, store, catalog, media),
		builder: NewBuilder(ws, catalog),
	}
}

package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"newspage/pkg/config"
	"newspage/pkg/logfields"
	"newspage/pkg/services"
)

const editorShell = "editor.html"

// Static serves the editor, live uploads and articles, and the built site.
type Static struct {
	ws        *services.Workspace
	outputDir string

	mu     sync.Mutex
	bundle []byte
}

func NewStatic(ws *services.Workspace, outputDir string) *Static {
	return &Static{ws: ws, outputDir: outputDir}
}

// WarmEditorBundle compiles the editor bundle ahead of the first request.
func (s *Static) WarmEditorBundle() error {
	_, err := s.editorBundle()
	return err
}

func (s *Static) editorBundle() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle != nil {
		return s.bundle, nil
	}
	js, err := services.CompileEditorBundle(s.ws)
	if err != nil {
		return nil, err
	}
	s.bundle = js
	return js, nil
}

func (s *Static) EditorShell(c *gin.Context) {
	shell, err := fs.ReadFile(s.ws.Assets, editorShell)
	if err != nil {
		notFound(c)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", shell)
}

func (s *Static) EditorBundle(c *gin.Context) {
	js, err := s.editorBundle()
	if err != nil {
		logStaticError(c, err)
		c.String(http.StatusInternalServerError, "Editor bundle unavailable")
		return
	}
	c.Data(http.StatusOK, "text/javascript; charset=utf-8", js)
}

// Serve resolves every other GET: uploads and article sources from the live
// workspace, the rest from the build output.
func (s *Static) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		notFound(c)
		return
	}

	urlPath := c.Request.URL.Path
	var full string
	switch {
	case strings.HasPrefix(urlPath, config.UploadsURLPrefix):
		full = services.SafeJoin(s.ws.UploadsDir(), "", strings.TrimPrefix(urlPath, config.UploadsURLPrefix))
	case strings.HasPrefix(urlPath, "/"+config.ArticlesDir+"/") && strings.HasSuffix(urlPath, ".md"):
		full = services.SafeJoin(s.ws.ArticlesDir(), "", strings.TrimPrefix(urlPath, "/"+config.ArticlesDir+"/"))
	default:
		rel := strings.TrimPrefix(urlPath, "/")
		if rel == "" {
			rel = "index.html"
		}
		full = services.SafeJoin(s.outputDir, "", rel)
	}
	if full == "" {
		notFound(c)
		return
	}
	serveFile(c, full)
}

// serveFile serves a regular file and nothing else: directories are misses.
func serveFile(c *gin.Context, full string) {
	f, err := os.Open(full)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logStaticError(c, err)
		}
		notFound(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(c)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found")
}

func logStaticError(c *gin.Context, err error) {
	_ = c.Error(err)
	slog.Warn("Static request failed", logfields.Path(c.Request.URL.Path), logfields.Error(err))
}

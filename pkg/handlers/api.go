package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"newspage/pkg/apperr"
	"newspage/pkg/logfields"
	"newspage/pkg/services"
)

// API adapts the editor operations to HTTP.
type API struct {
	editor    *services.Editor
	media     *services.Media
	builder   *services.Builder
	outputDir string
}

func NewAPI(editor *services.Editor, media *services.Media, builder *services.Builder, outputDir string) *API {
	return &API{editor: editor, media: media, builder: builder, outputDir: outputDir}
}

func (a *API) ListArticles(c *gin.Context) {
	articles, err := a.editor.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (a *API) GetArticle(c *gin.Context) {
	content, err := a.editor.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (a *API) UpdateArticle(c *gin.Context) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := a.editor.Update(c.Request.Context(), c.Param("id"), *req.Content); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) CreateArticle(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	id, err := a.editor.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (a *API) DeleteArticle(c *gin.Context) {
	result, err := a.editor.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) Generate(c *gin.Context) {
	if err := a.builder.Build(c.Request.Context(), a.outputDir, services.BuildOptions{Atomic: true}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// writeError maps an error onto its status code and a {"error": message} body.
func writeError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	message := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message()
		if appErr.Kind() == apperr.KindNotFound {
			message = "Not found"
		}
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed",
			logfields.Path(c.Request.URL.Path),
			logfields.Error(err))
		if appErr != nil && appErr.Kind() == apperr.KindBuild {
			message = err.Error()
		}
	}
	c.JSON(status, gin.H{"error": message})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouterOptions carries the pieces the router is assembled from.
type RouterOptions struct {
	API     *API
	Static  *Static
	Metrics http.Handler
}

// NewRouter wires the editing API, metrics and static serving onto one
// gin engine.
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	// Unknown paths, including trailing-slash variants of API routes, must
	// reach NoRoute rather than being redirected.
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	api := r.Group("/api")
	{
		api.GET("/articles", opts.API.ListArticles)
		api.POST("/articles", opts.API.CreateArticle)
		api.GET("/articles/:id", opts.API.GetArticle)
		api.PUT("/articles/:id", opts.API.UpdateArticle)
		api.DELETE("/articles/:id", opts.API.DeleteArticle)
		api.POST("/generate", opts.API.Generate)
		api.POST("/upload", opts.API.UploadMedia)
	}

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	r.GET("/editor", opts.Static.EditorShell)
	r.GET("/editor/", opts.Static.EditorShell)
	r.GET("/editor-bundle.js", opts.Static.EditorBundle)

	r.NoRoute(func(c *gin.Context) {
		if p := c.Request.URL.Path; p == "/api" || strings.HasPrefix(p, "/api/") {
			apiNotFound(c)
			return
		}
		opts.Static.Serve(c)
	})
	return r
}

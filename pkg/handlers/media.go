package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer src.Close()

	info, err := a.media.SaveUpload(file.Filename, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

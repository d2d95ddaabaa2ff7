package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler handles static file serving
type StaticHandler struct {
	files fs.FS
}

// NewStaticHandler creates a static file handler over files.
func NewStaticHandler(files fs.FS) *StaticHandler {
	return &StaticHandler{files: files}
}

// ServeStatic handles GET /static/*filepath
func (h *StaticHandler) ServeStatic(c *gin.Context) {
	// Clean the path and remove the leading slash
	name := strings.TrimPrefix(path.Clean("/"+c.Param("filepath")), "/")
	if name == "" || !fs.ValidPath(name) {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := fs.ReadFile(h.files, name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	// Set caching headers for static assets
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, getContentType(name), data)
}

// getContentType returns the appropriate content type for a file
func getContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

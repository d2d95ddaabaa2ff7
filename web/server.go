// Package web serves the upload page: the form, the current display slot
// and the transcript download.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"

	"a2t/web/handlers"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Templates parses the page templates. Each is named by its file name.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(assets, "templates/*.html")
}

// StaticFS returns the stylesheet and other assets rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// static/ is embedded at build time.
		panic(err)
	}
	return sub
}

// RegisterRoutes mounts the page routes on router.
func RegisterRoutes(router gin.IRouter, page *handlers.PageHandler, static *handlers.StaticHandler) {
	router.GET("/", page.Index)
	router.POST("/upload", page.Upload)
	router.GET("/download", page.Download)
	router.GET("/static/*filepath", static.ServeStatic)
}

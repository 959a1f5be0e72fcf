// Package assets provides the embedded HTML templates and static files.
package assets

import (
	"embed"
	"io/fs"
)

// EmbeddedFiles contains the web UI: templates under web/templates and
// scripts and styles under web/static.
//
//go:embed web/templates/*.html web/static/*
var EmbeddedFiles embed.FS

// TemplatesFS returns the template directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(EmbeddedFiles, "web/templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS returns the static file directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(EmbeddedFiles, "web/static")
	if err != nil {
		panic(err)
	}
	return sub
}

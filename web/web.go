// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"

	"github.com/go-extras/go-kit/must"
)

//go:embed templates static
var content embed.FS

func Templates() fs.FS {
	return must.Must(fs.Sub(content, "templates"))
}

func Static() fs.FS {
	return must.Must(fs.Sub(content, "static"))
}

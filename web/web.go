// Package web embeds the single-page frontend and serves it from the
// binary, so the app ships as one deployable.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Handler serves the embedded frontend. Unknown paths fall through to
// the file server, which answers 404; the page itself lives at /.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// The subtree is embedded at build time; a failure here is a
		// packaging bug.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

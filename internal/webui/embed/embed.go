package embed

import (
	"embed"
	"io/fs"
)

// DistFS contains the shell document and static assets served by the UI
// library: dist/index.html and dist/assets/*.
//
//go:embed all:dist
var DistFS embed.FS

// Dist returns DistFS rooted at dist.
func Dist() fs.FS {
	sub, err := fs.Sub(DistFS, "dist")
	if err != nil {
		// dist is embedded at compile time; Sub only fails on an invalid name
		panic(err)
	}
	return sub
}

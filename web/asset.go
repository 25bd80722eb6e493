package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var static embed.FS

func Assets() fs.FS {
	sub, _ := fs.Sub(static, "static")
	return sub
}

// Package public embeds the console stylesheet and client script.
package public

import (
	"embed"
	"io/fs"
)

//go:embed static/*.css static/*.js
var static embed.FS

// StaticFS returns the assets rooted at static/, served under /public/static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

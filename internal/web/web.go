// Package web holds the web client's assets: two page templates and the static asset root.
//
//   - templates/login.html : login page, rendered with the provider authorization URL
//   - templates/callback.html : landing page after the provider redirect
//   - static/ : everything else, served as-is
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"os"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// LoginPage is the data of the login template.
type LoginPage struct {
	AuthURL string
}

// CallbackPage is the data of the callback template.
type CallbackPage struct {
	OK       bool
	Title    string
	Message  string
	Redirect string
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

// Static returns the asset root. An empty dir selects the embedded assets.
func Static(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(staticFiles, "static")
}

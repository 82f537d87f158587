package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Templates parses the embedded page templates. Each page is addressed by its
// file name, for example "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFiles, "templates/*.html")
}

// Static returns the embedded assets rooted at the static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the helpers available inside templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		// safeHTML marks already sanitized markup as trusted.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"megabytes": func(n int64) int64 {
			return (n + (1<<20 - 1)) >> 20
		},
	}
}

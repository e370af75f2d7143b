package views

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var files embed.FS

// Load parses every view template. Each page is addressed by its file name,
// e.g. "home.tmpl".
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"paragraphs": paragraphs,
		"join":       strings.Join,
	}).ParseFS(files, "templates/*.tmpl")
}

// paragraphs splits recipe instructions on blank or CRLF line breaks.
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

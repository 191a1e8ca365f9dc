package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded screen templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"shortDate": shortDate,
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

// shortDate trims API date strings to YYYY-MM-DD for display; anything that
// doesn't look like a calendar date passes through untouched.
func shortDate(s string) string {
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	return s
}

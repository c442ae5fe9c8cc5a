package web

import (
	"embed"
	"html/template"
)

// TemplatesFS embeds the page shell and the component fragments.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css/js).
//
//go:embed static/*
var StaticFS embed.FS

// Templates parses every embedded template with funcs available.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(TemplatesFS, "templates/*.html")
}

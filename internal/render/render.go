// Package render is the template-rendering collaborator: handlers hand it a
// template name and a context map and get a complete HTML page back.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer produces a rendered page for a template name and context map.
type Renderer interface {
	HTML(w http.ResponseWriter, status int, name string, data map[string]any)
}

// TemplateRenderer renders html/template pages embedded in the binary.
type TemplateRenderer struct {
	templates *template.Template
}

func New() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{templates: t}, nil
}

// HTML renders the named template into a buffer first so a template failure
// becomes a 500 instead of a half-written page.
func (r *TemplateRenderer) HTML(w http.ResponseWriter, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[ERROR] render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[ERROR] write response for %s: %v", name, err)
	}
}

// Package render turns page data into HTML using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render
const (
	LoginPage     = "login.html"
	SignupPage    = "signup.html"
	DashboardPage = "dashboard.html"
)

// Renderer holds one parsed template set per page, each built on the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{LoginPage, SignupPage, DashboardPage} {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		pages[page] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes page with data and writes it with status. Nothing is
// written if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("render: unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

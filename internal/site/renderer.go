// Package site renders the public-facing pages and exposes read-only JSON
// endpoints for the same content. Pages are contextually autoescaped; all
// content flows through typed view models.
package site

import (
	"embed"
	"fmt"
	"io"

	"github.com/google/safehtml/template"
)

//go:embed templates/*
var templateFS embed.FS

// pageNames lists every standalone page template.
var pageNames = []string{
	"home", "about", "news", "news_post", "gallery", "videos",
	"certificates", "services", "overview",
}

// Renderer renders public pages from the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all page templates from the embedded filesystem.
func NewRenderer() (*Renderer, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		file := name + ".html"
		tmpl, err := template.New(file).ParseFS(trustedFS, "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page populated with the view model.
func (r *Renderer) Render(w io.Writer, page string, vm any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.Execute(w, vm)
}

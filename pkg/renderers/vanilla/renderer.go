// Package vanilla renders a form snapshot into plain HTML through pongo2
// templates. The output is a static picture of the form's current state;
// wiring behaviour onto it is the host page's concern.
package vanilla

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk. The directory
// holds form.tmpl and field.tmpl at its root.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templates = os.DirFS(path)
		}
	}
}

// Renderer produces HTML snapshots.
type Renderer struct {
	mu  sync.Mutex
	set *pongo2.TemplateSet
}

// New constructs a renderer over the embedded templates unless options say
// otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Renderer{
		set: pongo2.NewSet("formkit-vanilla", pongo2.NewFSLoader(cfg.templates)),
	}, nil
}

// Name returns the renderer registry identifier.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType returns the MIME type of rendered output.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render evaluates the form's visibility, renders its fields and produces the
// HTML snapshot.
func (r *Renderer) Render(ctx context.Context, f *form.Form) ([]byte, error) {
	if f == nil {
		return nil, errors.New("vanilla renderer: form is nil")
	}
	if err := f.Render(ctx); err != nil {
		return nil, err
	}

	tmpl, err := r.set.FromFile("form.tmpl")
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: load template: %w", err)
	}

	var buf bytes.Buffer
	r.mu.Lock()
	err = tmpl.ExecuteWriter(pongo2.Context{"form": snapshot(f)}, &buf)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want
// the built-in markup out of the box. The bundle is rooted at the templates
// themselves, so includes resolve as sibling paths.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive fixes the directory layout at build time.
		panic(err)
	}
	return sub
}

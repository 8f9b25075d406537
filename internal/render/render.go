// Package render converts Markdown bodies to HTML with goldmark.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options control the rendering behaviour.
type Options struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// AllowHTML passes raw HTML in the source through to the output.
	// Articles quote illustrative markup, so this defaults to on.
	AllowHTML bool
}

// Renderer wraps a configured goldmark engine. It is stateless and safe for
// concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer with GFM tables/strikethrough, autolinks, task lists,
// and auto heading IDs.
func New(opts Options) *Renderer {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.AllowHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			gmparser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

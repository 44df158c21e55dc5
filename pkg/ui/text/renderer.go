// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
)

// Renderer writes the markdown summary untouched
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult writes the result's markdown summary
func (r *Renderer) RenderResult(result interface{ Markdown() string }) error {
	_, err := io.WriteString(r.output, result.Markdown())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

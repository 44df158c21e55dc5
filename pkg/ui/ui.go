// Package ui renders run results for the terminal. Rich terminals get the
// markdown summary through glamour, pipes get plain text, and scripts can
// ask for JSON.
package ui

import (
	"io"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/ui/json"
	"github.com/arthur-debert/luadb/pkg/ui/terminal"
	"github.com/arthur-debert/luadb/pkg/ui/text"
)

// Result is anything a command hands back for display: run reports,
// schema listings. JSON output encodes the value itself.
type Result = interface{ Markdown() string }

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result Result) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format, detecting terminal
// capabilities when format is FormatAuto
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/report"
	"github.com/charmbracelet/glamour"
)

// Renderer renders the markdown summary with glamour and highlights
// warnings with lipgloss styles
type Renderer struct {
	output io.Writer

	// Style is a glamour style name ("dark", "light", "notty") or "auto"
	Style string
	// Width wraps rendered markdown, 0 leaves glamour's default
	Width int
}

// New creates a new terminal renderer with automatic style detection
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, Style: "auto"}
}

// RenderResult renders the result's markdown. Run reports are followed by
// a one line status.
func (r *Renderer) RenderResult(result interface{ Markdown() string }) error {
	if _, err := io.WriteString(r.output, r.markdown(result.Markdown())); err != nil {
		return err
	}
	rep, ok := result.(*report.Report)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(r.output, Status(rep))
	return err
}

// RenderError renders an error with its details, sorted by key
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render("Error:"))
	b.WriteString(" ")
	b.WriteString(err.Error())
	b.WriteString("\n")

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  %s: %v", k, details[k])))
		b.WriteString("\n")
	}

	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, MutedStyle.Render(msg))
	return err
}

// markdown falls back to the raw text when glamour can't render it
func (r *Renderer) markdown(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Status is the one line verdict printed under the summary
func Status(rep *report.Report) string {
	var warnings []string
	if n := rep.Summary.Conflicts; n > 0 {
		warnings = append(warnings, plural(n, "conflict"))
	}
	if n := rep.Summary.Skipped; n > 0 {
		warnings = append(warnings, plural(n, "skipped table"))
	}
	if n := rep.Summary.Overwritten; n > 0 {
		warnings = append(warnings, plural(n, "overwritten file"))
	}
	if len(warnings) > 0 {
		return WarningStyle.Render("Finished with " + strings.Join(warnings, ", "))
	}
	return SuccessStyle.Render("Finished cleanly")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

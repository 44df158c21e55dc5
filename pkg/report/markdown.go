package report

import (
	"fmt"
	"strings"
)

// Markdown renders a human summary of the run
func (r *Report) Markdown() string {
	var b strings.Builder

	title := "Conversion finished"
	if r.DryRun {
		title = "Dry run finished"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s`: %d sources, %d tables", r.RunID, r.Summary.Sources, r.Summary.Tables)
	if r.DryRun {
		b.WriteString(", nothing written.\n")
	} else {
		fmt.Fprintf(&b, ", %d files written to `%s`.\n", r.Summary.Written, r.OutDir)
	}

	if len(r.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		b.WriteString("Processed in this order; later sources win conflicts.\n\n")
		for i, s := range r.Sources {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, s.Name, s.Kind)
		}
	}

	if len(r.Conflicts) > 0 {
		b.WriteString("\n## Conflicts\n\n")
		b.WriteString("| File | Winner | Overwritten |\n|------|--------|-------------|\n")
		for _, c := range r.Conflicts {
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", c.Path, c.Winner, c.Loser)
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\n## Skipped tables\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- `%s` from %s: %s\n", s.File, s.Source, s.Code)
		}
	}

	var placeholders []string
	for _, t := range r.Tables {
		if t.Placeholder {
			placeholders = append(placeholders, t.Path)
		}
	}
	if len(placeholders) > 0 {
		b.WriteString("\n## Tables without definition\n\n")
		b.WriteString("Written as empty tables.\n\n")
		for _, p := range placeholders {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	if len(r.Overwritten) > 0 {
		b.WriteString("\n## Overwritten files\n\n")
		for _, p := range r.Overwritten {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	return b.String()
}

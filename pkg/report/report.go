// Package report turns a pipeline result into a run report: a file in one
// of several formats, or a markdown summary for the terminal.
package report

import (
	"time"

	"github.com/arthur-debert/luadb/pkg/conflicts"
	"github.com/arthur-debert/luadb/pkg/pipeline"
	"github.com/arthur-debert/luadb/pkg/sources"
)

// Summary holds the counts of a run
type Summary struct {
	Sources     int `json:"sources" yaml:"sources" toml:"sources"`
	Tables      int `json:"tables" yaml:"tables" toml:"tables"`
	Written     int `json:"written" yaml:"written" toml:"written"`
	Conflicts   int `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
	Skipped     int `json:"skipped" yaml:"skipped" toml:"skipped"`
	Overwritten int `json:"overwritten" yaml:"overwritten" toml:"overwritten"`
}

// Report is the serializable form of a run
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id" toml:"run_id"`
	Started    time.Time `json:"started" yaml:"started" toml:"started"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	OutDir     string    `json:"out_dir" yaml:"out_dir" toml:"out_dir"`

	Summary Summary `json:"summary" yaml:"summary" toml:"summary"`

	Sources     []sources.Source           `json:"sources" yaml:"sources" toml:"sources"`
	Tables      []pipeline.TableSummary    `json:"tables" yaml:"tables" toml:"tables"`
	Conflicts   []conflicts.ConflictRecord `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
	Skipped     []pipeline.Skipped         `json:"skipped" yaml:"skipped" toml:"skipped"`
	Overwritten []string                   `json:"overwritten" yaml:"overwritten" toml:"overwritten"`
}

// FromResult builds a report from a pipeline result
func FromResult(r *pipeline.Result) *Report {
	rep := &Report{
		RunID:       r.RunID,
		Started:     r.Started.UTC().Truncate(time.Second),
		DurationMS:  r.Duration.Milliseconds(),
		DryRun:      r.DryRun,
		OutDir:      r.OutDir,
		Sources:     nonNil(r.Sources),
		Tables:      nonNil(r.Tables),
		Conflicts:   nonNil(r.Conflicts),
		Skipped:     nonNil(r.Skipped),
		Overwritten: nonNil(r.Overwritten),
	}
	rep.Summary = Summary{
		Sources:     len(r.Sources),
		Tables:      len(r.Tables),
		Written:     len(r.Written),
		Conflicts:   len(r.Conflicts),
		Skipped:     len(r.Skipped),
		Overwritten: len(r.Overwritten),
	}
	return rep
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Package conflicts merges tables from several sources into one output tree
// and records which source won each contested path.
package conflicts

import (
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/tables"
	"github.com/rs/zerolog"
)

// ConflictRecord notes that Winner overwrote Loser's table at Path
type ConflictRecord struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	Winner string `json:"winner" yaml:"winner" toml:"winner"`
	Loser  string `json:"loser" yaml:"loser" toml:"loser"`
}

type entry struct {
	source string
	table  *tables.PreprocessedTable
}

// Tracker stores one table per output path. Sources must be recorded in
// load order; the last source to record a path wins it.
type Tracker struct {
	entries   map[string]*entry
	order     []string
	conflicts []ConflictRecord
	logger    zerolog.Logger
}

// NewTracker returns an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[string]*entry),
		logger:  logging.GetLogger("conflicts"),
	}
}

// Record stores table for source, replacing whatever held its path before
func (t *Tracker) Record(source string, table *tables.PreprocessedTable) {
	path := table.Path()

	existing, ok := t.entries[path]
	if !ok {
		t.entries[path] = &entry{source: source, table: table}
		t.order = append(t.order, path)
		return
	}

	if existing.source == source {
		t.logger.Warn().
			Str("source", source).
			Str("path", path).
			Msg("Source produced the same output path twice, keeping the later table")
	} else {
		t.logger.Info().
			Str("path", path).
			Str("winner", source).
			Str("loser", existing.source).
			Msg("Table overwritten by later source")
		t.conflicts = append(t.conflicts, ConflictRecord{
			Path:   path,
			Winner: source,
			Loser:  existing.source,
		})
	}

	existing.source = source
	existing.table = table
}

// Tables returns the stored tables in first-insertion order of their paths
func (t *Tracker) Tables() []*tables.PreprocessedTable {
	out := make([]*tables.PreprocessedTable, 0, len(t.order))
	for _, path := range t.order {
		out = append(out, t.entries[path].table)
	}
	return out
}

// Owner returns the source currently holding path
func (t *Tracker) Owner(path string) (string, bool) {
	e, ok := t.entries[path]
	if !ok {
		return "", false
	}
	return e.source, true
}

// Conflicts returns the conflict records in the order they occurred
func (t *Tracker) Conflicts() []ConflictRecord {
	out := make([]ConflictRecord, len(t.conflicts))
	copy(out, t.conflicts)
	return out
}

// Len returns the number of distinct output paths
func (t *Tracker) Len() int {
	return len(t.order)
}

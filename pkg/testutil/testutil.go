package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/luadb/pkg/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SchemaYAML defines a keyed table (units_tables), a table with a sequence
// column (nested_tables) and a keyless table (flags_tables).
const SchemaYAML = `
tables:
  units_tables:
    - version: 1
      fields:
        - { name: key, kind: StringU8, key: true }
        - { name: cost, kind: I32 }
  nested_tables:
    - version: 1
      fields:
        - { name: key, kind: StringU8, key: true }
        - { name: items, kind: SequenceU16 }
  flags_tables:
    - version: 1
      fields:
        - { name: name, kind: StringU8 }
        - { name: enabled, kind: Boolean }
`

// FileTree maps slash separated paths to file contents
type FileTree map[string]string

// Paths returns the tree's paths in lexical order
func (ft FileTree) Paths() []string {
	out := make([]string, 0, len(ft))
	for p := range ft {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Schema parses SchemaYAML
func Schema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(SchemaYAML), schema.FormatYAML)
	require.NoError(t, err)
	return s
}

// MemFs returns an in-memory filesystem holding tree
func MemFs(t *testing.T, tree FileTree) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range tree.Paths() {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(tree[p]), 0644))
	}
	return fs
}

// WriteTree writes tree below root on the real filesystem
func WriteTree(t *testing.T, root string, tree FileTree) {
	t.Helper()
	for _, p := range tree.Paths() {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(tree[p]), 0644))
	}
}

// TSV builds a table file: a header line followed by rows, tab separated
func TSV(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// ReadFile reads path from fs, failing the test on error
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

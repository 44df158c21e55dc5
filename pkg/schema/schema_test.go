package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSchema = `
tables:
  units_tables:
    - version: 1
      fields:
        - { name: key, kind: StringU8, key: true }
    - version: 3
      fields:
        - { name: key, kind: StringU8, key: true }
        - { name: cost, kind: I32 }
  land_units_tables:
    - version: 0
      fields:
        - { name: a, kind: Boolean }
`

const tomlSchema = `
[[tables.units_tables]]
version = 3
fields = [
  { name = "key", kind = "StringU8", key = true },
  { name = "cost", kind = "I32" },
]
`

const jsonSchema = `{"tables": {"units_tables": [
  {"version": 3, "fields": [
    {"name": "key", "kind": "StringU8", "key": true},
    {"name": "cost", "kind": "I32"}
  ]}
]}}`

func TestParseFormats(t *testing.T) {
	want := []types.FieldDef{
		{Name: "key", Kind: types.KindStringU8, IsKey: true},
		{Name: "cost", Kind: types.KindI32},
	}

	tests := []struct {
		format string
		data   string
	}{
		{FormatYAML, yamlSchema},
		{FormatTOML, tomlSchema},
		{FormatJSON, jsonSchema},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)

			fields, ok := s.Lookup("units_tables", 3)
			require.True(t, ok)
			assert.Equal(t, want, fields)
		})
	}
}

func TestLatestAndVersions(t *testing.T) {
	s, err := Parse([]byte(yamlSchema), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, s.Versions("units_tables"))
	fields, version, ok := s.Latest("units_tables")
	require.True(t, ok)
	assert.Equal(t, 3, version)
	assert.Len(t, fields, 2)

	_, _, ok = s.Latest("nope")
	assert.False(t, ok)
	_, ok = s.Lookup("units_tables", 2)
	assert.False(t, ok)

	assert.Equal(t, []string{"land_units_tables", "units_tables"}, s.Tables())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
	}{
		{"broken yaml", "tables: [", errors.ErrSchemaLoad},
		{"unknown kind", "tables:\n  t:\n    - version: 1\n      fields:\n        - { name: a, kind: Weird }\n", errors.ErrSchemaInvalid},
		{"no fields", "tables:\n  t:\n    - version: 1\n", errors.ErrSchemaInvalid},
		{"duplicate field", "tables:\n  t:\n    - version: 1\n      fields:\n        - { name: a, kind: I32 }\n        - { name: a, kind: I32 }\n", errors.ErrSchemaInvalid},
		{"duplicate version", "tables:\n  t:\n    - version: 1\n      fields: [{ name: a, kind: I32 }]\n    - version: 1\n      fields: [{ name: a, kind: I32 }]\n", errors.ErrSchemaInvalid},
		{"empty field name", "tables:\n  t:\n    - version: 1\n      fields:\n        - { kind: I32 }\n", errors.ErrSchemaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlSchema), 0644))

	s, err := Load(afero.NewOsFs(), path)
	require.NoError(t, err)
	assert.Len(t, s.Tables(), 2)

	_, err = Load(afero.NewOsFs(), filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaLoad))

	_, err = Load(afero.NewOsFs(), filepath.Join(dir, "schema.ini"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaLoad))
}

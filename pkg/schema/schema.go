// Package schema loads table definitions: for every table name, the
// versions it has been shipped in and the fields of each version.
//
// A schema file looks like this in YAML (TOML and JSON use the same keys):
//
//	tables:
//	  units_tables:
//	    - version: 2
//	      fields:
//	        - { name: key, kind: StringU8, key: true }
//	        - { name: cost, kind: I32 }
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FieldSpec is a field as written in a schema file
type FieldSpec struct {
	Name string `yaml:"name" toml:"name" json:"name"`
	Kind string `yaml:"kind" toml:"kind" json:"kind"`
	Key  bool   `yaml:"key,omitempty" toml:"key,omitempty" json:"key,omitempty"`
}

// Definition is one version of a table
type Definition struct {
	Version int         `yaml:"version" toml:"version" json:"version"`
	Fields  []FieldSpec `yaml:"fields" toml:"fields" json:"fields"`
}

// File is the on-disk layout of a schema
type File struct {
	Tables map[string][]Definition `yaml:"tables" toml:"tables" json:"tables"`
}

// Schema is a validated set of table definitions
type Schema struct {
	tables map[string]map[int][]types.FieldDef
}

// Format names accepted by Parse
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// FormatFromPath infers the schema format from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Newf(errors.ErrSchemaLoad, "unknown schema file type: %s", path).
		WithDetail("path", path)
}

// Load reads and validates a schema file from fs
func Load(fs afero.Fs, path string) (*Schema, error) {
	logger := logging.GetLogger("schema")

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSchemaLoad, "failed to read schema %s", path).
			WithDetail("path", path)
	}

	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Int("tables", len(s.tables)).Msg("Schema loaded")
	return s, nil
}

// Parse decodes schema data in the given format and validates it
func Parse(data []byte, format string) (*Schema, error) {
	var f File
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, errors.Newf(errors.ErrSchemaLoad, "unknown schema format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSchemaLoad, "failed to parse %s schema", format)
	}

	return New(f)
}

// New validates a schema file and indexes it
func New(f File) (*Schema, error) {
	s := &Schema{tables: make(map[string]map[int][]types.FieldDef)}

	for name, defs := range f.Tables {
		if name == "" {
			return nil, errors.New(errors.ErrSchemaInvalid, "table with empty name")
		}
		versions := make(map[int][]types.FieldDef, len(defs))
		for _, def := range defs {
			if _, dup := versions[def.Version]; dup {
				return nil, invalid(name, def.Version, "duplicate version")
			}
			fields, err := buildFields(name, def)
			if err != nil {
				return nil, err
			}
			versions[def.Version] = fields
		}
		s.tables[name] = versions
	}

	return s, nil
}

func buildFields(table string, def Definition) ([]types.FieldDef, error) {
	if len(def.Fields) == 0 {
		return nil, invalid(table, def.Version, "no fields")
	}

	seen := make(map[string]bool, len(def.Fields))
	fields := make([]types.FieldDef, 0, len(def.Fields))
	for _, field := range def.Fields {
		if field.Name == "" {
			return nil, invalid(table, def.Version, "field with empty name")
		}
		if seen[field.Name] {
			return nil, invalid(table, def.Version, fmt.Sprintf("duplicate field %q", field.Name))
		}
		seen[field.Name] = true

		kind, ok := types.ParseCellKind(field.Kind)
		if !ok {
			return nil, invalid(table, def.Version, fmt.Sprintf("field %q has unknown kind %q", field.Name, field.Kind))
		}
		fields = append(fields, types.FieldDef{Name: field.Name, Kind: kind, IsKey: field.Key})
	}
	return fields, nil
}

func invalid(table string, version int, reason string) error {
	return errors.Newf(errors.ErrSchemaInvalid, "table %s version %d: %s", table, version, reason).
		WithDetail("table", table).
		WithDetail("version", version)
}

// Lookup returns the fields of one table version
func (s *Schema) Lookup(table string, version int) ([]types.FieldDef, bool) {
	fields, ok := s.tables[table][version]
	return fields, ok
}

// Latest returns the highest version of a table
func (s *Schema) Latest(table string) ([]types.FieldDef, int, bool) {
	versions := s.Versions(table)
	if len(versions) == 0 {
		return nil, 0, false
	}
	v := versions[len(versions)-1]
	return s.tables[table][v], v, true
}

// Versions returns the known versions of a table in ascending order
func (s *Schema) Versions(table string) []int {
	out := make([]int, 0, len(s.tables[table]))
	for v := range s.tables[table] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Tables returns the defined table names in lexical order
func (s *Schema) Tables() []string {
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

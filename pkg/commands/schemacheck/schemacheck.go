// Package schemacheck implements the schema check command: load a schema
// file, validate it and describe what each table will turn into.
package schemacheck

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/luavalue"
	"github.com/arthur-debert/luadb/pkg/schema"
	"github.com/spf13/afero"
)

// TableInfo describes the latest definition of one table
type TableInfo struct {
	Name     string `json:"name"`
	Versions []int  `json:"versions"`
	Fields   int    `json:"fields"`
	Key      string `json:"key,omitempty"`
	Shape    string `json:"shape"`
}

// Result is the outcome of a schema check
type Result struct {
	Path   string      `json:"path"`
	Tables []TableInfo `json:"tables"`
}

// Check loads the schema at path. Any validation problem is returned as
// the error.
func Check(fs afero.Fs, path string) (*Result, error) {
	log := logging.GetLogger("commands.schemacheck")
	log.Debug().Str("command", "Check").Str("path", path).Msg("Executing command")

	defs, err := schema.Load(fs, path)
	if err != nil {
		return nil, err
	}

	result := &Result{Path: path, Tables: []TableInfo{}}
	for _, name := range defs.Tables() {
		fields, _, _ := defs.Latest(name)
		info := TableInfo{
			Name:     name,
			Versions: defs.Versions(name),
			Fields:   len(fields),
			Shape:    luavalue.ClassifyShape(fields).String(),
		}
		if i := luavalue.KeyIndex(fields); i >= 0 {
			info.Key = fields[i].Name
		}
		result.Tables = append(result.Tables, info)
	}
	return result, nil
}

// Markdown lists the tables as a markdown table
func (r *Result) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Schema `%s`\n\n", r.Path)
	if len(r.Tables) == 0 {
		b.WriteString("No tables defined.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d tables defined.\n\n", len(r.Tables))
	b.WriteString("| Table | Versions | Fields | Key | Shape |\n|-------|----------|--------|-----|-------|\n")
	for _, t := range r.Tables {
		versions := make([]string, len(t.Versions))
		for i, v := range t.Versions {
			versions[i] = fmt.Sprint(v)
		}
		key := t.Key
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n", t.Name, strings.Join(versions, ", "), t.Fields, key, t.Shape)
	}
	return b.String()
}

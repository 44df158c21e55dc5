// Package decoder reads table files exported as tab-separated text.
//
// A table file has a header line naming the columns, an optional metadata
// line of the form "#<table_name>;<version>" and one line per row. Lines
// starting with '#' are never rows. Columns may appear in any order; the
// decoded fields follow the schema definition's order.
package decoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/schema"
	"github.com/arthur-debert/luadb/pkg/types"
)

// TSV decodes tab-separated table files against a schema
type TSV struct {
	schema *schema.Schema
}

// NewTSV returns a decoder using s for table definitions
func NewTSV(s *schema.Schema) *TSV {
	return &TSV{schema: s}
}

var _ types.Decoder = (*TSV)(nil)

// Decode implements types.Decoder
func (d *TSV) Decode(tableName, fileStem string, raw []byte) (*types.DecodedTable, error) {
	out := &types.DecodedTable{TableName: tableName, FileStem: fileStem}

	header, version, rows := splitLines(string(raw))

	var fields []types.FieldDef
	var ok bool
	if version >= 0 {
		fields, ok = d.schema.Lookup(tableName, version)
	} else {
		fields, _, ok = d.schema.Latest(tableName)
	}
	if !ok {
		out.Missing = true
		return out, nil
	}
	out.Fields = fields

	if header == nil {
		return nil, decodeErr(tableName, fileStem, "missing header line")
	}

	columns, err := mapColumns(header, fields)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTableDecode, "table %s/%s", tableName, fileStem).
			WithDetail("table", tableName)
	}

	for n, line := range rows {
		if line == "" && len(header) != 1 {
			return nil, decodeErr(tableName, fileStem, "row "+strconv.Itoa(n+1)+" is empty")
		}
		values := strings.Split(line, "\t")
		if len(values) != len(header) {
			return nil, decodeErr(tableName, fileStem,
				"row "+strconv.Itoa(n+1)+" has "+strconv.Itoa(len(values))+" columns, header has "+strconv.Itoa(len(header)))
		}

		row := make([]types.Cell, len(fields))
		for i, f := range fields {
			cell, err := ParseCell(f.Kind, values[columns[i]])
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrTableDecode,
					"table %s/%s row %d field %s", tableName, fileStem, n+1, f.Name).
					WithDetails(map[string]interface{}{
						"table": tableName,
						"field": f.Name,
						"row":   n + 1,
					})
			}
			row[i] = cell
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// splitLines separates the header, the version from the metadata line
// (-1 when absent) and the row lines. Blank lines before the header and the
// one left by the final newline are dropped; other blank lines are rows.
func splitLines(text string) (header []string, version int, rows []string) {
	version = -1
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && strings.TrimSuffix(lines[n-1], "\r") == "" {
		lines = lines[:n-1]
	}
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "#") {
			if version < 0 {
				version = parseVersion(line)
			}
			continue
		}
		if header == nil {
			if line != "" {
				header = strings.Split(line, "\t")
			}
			continue
		}
		rows = append(rows, line)
	}
	return header, version, rows
}

func parseVersion(meta string) int {
	parts := strings.Split(strings.TrimPrefix(meta, "#"), ";")
	if len(parts) < 2 {
		return -1
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || v < 0 {
		return -1
	}
	return v
}

// mapColumns returns, for every field, the header column holding it
func mapColumns(header []string, fields []types.FieldDef) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, errors.Newf(errors.ErrTableDecode, "duplicate column %q", name)
		}
		index[name] = i
	}
	if len(header) != len(fields) {
		return nil, errors.Newf(errors.ErrTableDecode,
			"header has %d columns, definition has %d fields", len(header), len(fields))
	}

	columns := make([]int, len(fields))
	for i, f := range fields {
		col, ok := index[f.Name]
		if !ok {
			return nil, errors.Newf(errors.ErrTableDecode, "column %q missing from header", f.Name)
		}
		columns[i] = col
	}
	return columns, nil
}

// ParseCell parses the text of one cell as kind. Sequence kinds keep their
// raw text; they are rejected later when the table is normalized.
func ParseCell(kind types.CellKind, text string) (types.Cell, error) {
	switch {
	case kind == types.KindBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true", "1":
			return types.BoolCell(true), nil
		case "false", "0":
			return types.BoolCell(false), nil
		}
		return types.Cell{}, errors.Newf(errors.ErrTableDecode, "invalid boolean %q", text)

	case kind.IsInteger():
		bits := map[types.CellKind]int{types.KindI16: 16, types.KindI32: 32, types.KindI64: 64}[kind]
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, bits)
		if err != nil {
			return types.Cell{}, errors.Wrapf(err, errors.ErrTableDecode, "invalid %s %q", kind, text)
		}
		return types.IntCell(kind, v), nil

	case kind.IsFloat():
		bits := 64
		if kind == types.KindF32 {
			bits = 32
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), bits)
		if err != nil {
			return types.Cell{}, errors.Wrapf(err, errors.ErrTableDecode, "invalid %s %q", kind, text)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.Cell{}, errors.Newf(errors.ErrTableDecode, "non-finite %s %q", kind, text)
		}
		return types.FloatCell(kind, v), nil

	case kind.IsString(), kind.IsSequence():
		return types.StringCell(kind, text), nil
	}

	return types.Cell{}, errors.Newf(errors.ErrTableDecode, "unknown field kind %s", kind)
}

func decodeErr(table, stem, msg string) error {
	return errors.Newf(errors.ErrTableDecode, "table %s/%s: %s", table, stem, msg).
		WithDetail("table", table)
}

// Package tables turns decoded rows into the normalized shape the Lua
// writer consumes.
package tables

import (
	"sort"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/luavalue"
	"github.com/arthur-debert/luadb/pkg/types"
)

// KeyedRow is a row stored under its key value
type KeyedRow struct {
	Key   luavalue.Scalar
	Pairs []luavalue.Pair
}

// Data is a normalized table body. Keyed is filled for KeyValue tables,
// sorted by key; Rows is filled for FlatArray tables, in input order.
type Data struct {
	Shape luavalue.ShapeKind
	Keyed []KeyedRow
	Rows  [][]luavalue.Pair

	// Collapsed counts rows replaced by a later row with the same key
	Collapsed int
}

// Len returns the number of rows that will be written
func (d Data) Len() int {
	if d.Shape == luavalue.KeyValue {
		return len(d.Keyed)
	}
	return len(d.Rows)
}

// Empty returns the placeholder body used for tables without a definition
func Empty() Data {
	return Data{Shape: luavalue.FlatArray}
}

// Normalize builds the table body from decoded rows. Any cell that fails
// to normalize fails the whole table.
func Normalize(name string, fields []types.FieldDef, rows [][]types.Cell) (Data, error) {
	shape := luavalue.ClassifyShape(fields)
	labels := make([]luavalue.Scalar, len(fields))
	for i, f := range fields {
		labels[i] = luavalue.Str(f.Name)
	}

	data := Data{Shape: shape}
	keyIdx := luavalue.KeyIndex(fields)
	byKey := make(map[luavalue.Scalar][]luavalue.Pair)

	for r, row := range rows {
		if len(row) != len(fields) {
			return Data{}, errors.Newf(errors.ErrTableDecode,
				"row %d of %s has %d cells, definition has %d fields", r, name, len(row), len(fields)).
				WithDetail("table", name)
		}

		pairs := make([]luavalue.Pair, len(row))
		for i, cell := range row {
			value, err := luavalue.Normalize(cell)
			if err != nil {
				return Data{}, errors.Wrapf(err, errors.GetErrorCode(err),
					"field %s of table %s", fields[i].Name, name).
					WithDetail("table", name).
					WithDetail("field", fields[i].Name)
			}
			pairs[i] = luavalue.Pair{Label: labels[i], Value: value}
		}

		if shape == luavalue.FlatArray {
			data.Rows = append(data.Rows, pairs)
			continue
		}

		key := pairs[keyIdx].Value
		if _, seen := byKey[key]; seen {
			data.Collapsed++
		}
		byKey[key] = pairs
	}

	if shape == luavalue.KeyValue {
		data.Keyed = make([]KeyedRow, 0, len(byKey))
		for key, pairs := range byKey {
			data.Keyed = append(data.Keyed, KeyedRow{Key: key, Pairs: pairs})
		}
		sort.Slice(data.Keyed, func(i, j int) bool {
			return luavalue.Compare(data.Keyed[i].Key, data.Keyed[j].Key) < 0
		})
	}

	return data, nil
}

// PreprocessedTable is a normalized table bound to its output location.
// Treat it as read-only once created.
type PreprocessedTable struct {
	TableName  string
	OutputPath []string
	Data       Data
}

// Path returns the output path joined with '/'
func (t *PreprocessedTable) Path() string {
	return strings.Join(t.OutputPath, "/")
}

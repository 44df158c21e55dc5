package luavalue

import "github.com/arthur-debert/luadb/pkg/types"

// ShapeKind is the layout rows of a table are written in
type ShapeKind int

const (
	// FlatArray writes rows as an ordered list of row tables
	FlatArray ShapeKind = iota
	// KeyValue writes rows keyed by their single key field
	KeyValue
)

// String returns the shape name
func (k ShapeKind) String() string {
	if k == KeyValue {
		return "KeyValue"
	}
	return "FlatArray"
}

// Field is a column of a table definition
type Field = types.FieldDef

// ClassifyShape picks the shape from the number of key fields
func ClassifyShape(fields []Field) ShapeKind {
	keys := 0
	for _, f := range fields {
		if f.IsKey {
			keys++
		}
	}
	if keys == 1 {
		return KeyValue
	}
	return FlatArray
}

// KeyIndex returns the position of the only key field, or -1
func KeyIndex(fields []Field) int {
	idx := -1
	for i, f := range fields {
		if !f.IsKey {
			continue
		}
		if idx >= 0 {
			return -1
		}
		idx = i
	}
	return idx
}

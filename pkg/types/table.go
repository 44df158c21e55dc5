package types

// FieldDef describes one column of a table definition
type FieldDef struct {
	Name  string
	Kind  CellKind
	IsKey bool
}

// DecodedTable is the decoder's output for one table file
type DecodedTable struct {
	// TableName is the schema name, e.g. "units_tables"
	TableName string

	// FileStem is the file name inside the table's folder, without extension
	FileStem string

	Fields []FieldDef
	Rows   [][]Cell

	// Missing is set when no definition exists for the table's version.
	// Fields and Rows are empty in that case.
	Missing bool
}

// Decoder turns the raw bytes of a table file into a DecodedTable
type Decoder interface {
	Decode(tableName, fileStem string, raw []byte) (*DecodedTable, error)
}

// DecoderFunc adapts a function to the Decoder interface
type DecoderFunc func(tableName, fileStem string, raw []byte) (*DecodedTable, error)

// Decode calls f
func (f DecoderFunc) Decode(tableName, fileStem string, raw []byte) (*DecodedTable, error) {
	return f(tableName, fileStem, raw)
}

package sources

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"

	_ "modernc.org/sqlite"
)

// SQLite tables are named after the table they hold. A name of the form
// "<table_name>/<stem>" also sets the file stem; otherwise the database
// file stem is used.

type sqliteColumn struct {
	name    string
	kind    types.CellKind
	notNull bool
	isKey   bool
}

func loadSQLite(ctx context.Context, src Source) ([]Table, error) {
	db, err := sql.Open("sqlite", src.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot open database %s", src.Path)
	}
	defer func() { _ = db.Close() }()

	names, err := sqliteTables(ctx, db)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceInvalid, "cannot list tables of %s", src.Path).
			WithDetail("path", src.Path)
	}

	out := make([]Table, 0, len(names))
	for _, name := range names {
		tableName, stem := name, src.Stem
		if i := strings.Index(name, "/"); i > 0 && i < len(name)-1 {
			tableName, stem = name[:i], name[i+1:]
		}

		t := Table{TableName: tableName, FileStem: stem, File: name}
		t.Decoded, t.Err = readSQLiteTable(ctx, db, name, tableName, stem)
		out = append(out, t)
	}
	return out, nil
}

func sqliteTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) ([]sqliteColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []sqliteColumn
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, sqliteColumn{
			name:    name,
			kind:    kindForColumnType(colType, notNull != 0 || pk > 0),
			notNull: notNull != 0,
			isKey:   pk > 0,
		})
	}
	return cols, rows.Err()
}

// kindForColumnType maps a declared SQLite column type to a cell kind,
// following SQLite's type affinity rules
func kindForColumnType(colType string, required bool) types.CellKind {
	t := strings.ToUpper(colType)
	switch {
	case strings.Contains(t, "BOOL"):
		return types.KindBoolean
	case strings.Contains(t, "INT"):
		return types.KindI64
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		if required {
			return types.KindStringU8
		}
		return types.KindOptionalStringU8
	case strings.Contains(t, "BLOB"):
		return types.KindSequenceU32
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return types.KindF64
	case t == "":
		return types.KindOptionalStringU8
	}
	return types.KindF64
}

func readSQLiteTable(ctx context.Context, db *sql.DB, sqlName, tableName, stem string) (*types.DecodedTable, error) {
	cols, err := sqliteColumns(ctx, db, sqlName)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTableDecode, "cannot read columns of %s", sqlName).
			WithDetail("table", tableName)
	}

	table := &types.DecodedTable{TableName: tableName, FileStem: stem}
	names := make([]string, len(cols))
	for i, c := range cols {
		table.Fields = append(table.Fields, types.FieldDef{Name: c.name, Kind: c.kind, IsKey: c.isKey})
		names[i] = quoteIdent(c.name)
	}
	if len(cols) == 0 {
		table.Missing = true
		return table, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quoteIdent(sqlName)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTableDecode, "cannot query %s", sqlName).
			WithDetail("table", tableName)
	}
	defer func() { _ = rows.Close() }()

	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTableDecode, "cannot scan row of %s", sqlName).
				WithDetail("table", tableName)
		}
		row := make([]types.Cell, len(cols))
		for i, c := range cols {
			cell, err := sqliteCell(c.kind, values[i])
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrTableDecode, "column %s of %s", c.name, sqlName).
					WithDetail("table", tableName).
					WithDetail("field", c.name)
			}
			row[i] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTableDecode, "cannot read rows of %s", sqlName).
			WithDetail("table", tableName)
	}

	return table, nil
}

// sqliteCell converts a scanned value. NULL is only allowed in text columns,
// where it reads as the empty string.
func sqliteCell(kind types.CellKind, v interface{}) (types.Cell, error) {
	if v == nil {
		if kind.IsString() {
			return types.StringCell(kind, ""), nil
		}
		if kind.IsSequence() {
			return types.Cell{Kind: kind}, nil
		}
		return types.Cell{}, errors.Newf(errors.ErrTableDecode, "NULL in %s column", kind)
	}

	switch {
	case kind == types.KindBoolean:
		switch x := v.(type) {
		case int64:
			return types.BoolCell(x != 0), nil
		case bool:
			return types.BoolCell(x), nil
		}
	case kind.IsInteger():
		if x, ok := v.(int64); ok {
			return types.IntCell(kind, x), nil
		}
	case kind.IsFloat():
		switch x := v.(type) {
		case float64:
			return types.FloatCell(kind, x), nil
		case int64:
			return types.FloatCell(kind, float64(x)), nil
		}
	case kind.IsString():
		switch x := v.(type) {
		case string:
			return types.StringCell(kind, x), nil
		case []byte:
			return types.StringCell(kind, string(x)), nil
		}
	case kind.IsSequence():
		return types.Cell{Kind: kind}, nil
	}

	return types.Cell{}, errors.Newf(errors.ErrTableDecode, "value %v does not fit %s column", v, kind)
}

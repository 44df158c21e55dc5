package sources

import (
	"context"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/spf13/afero"
)

// Table is one table read from a source. Err holds a table-level failure;
// the rest of the source is still usable when it is set.
type Table struct {
	TableName string
	FileStem  string

	// File locates the table inside its source, e.g. db/units_tables/data__
	File string

	Decoded *types.DecodedTable
	Err     error
}

// Load reads every table of src in lexical order of their location.
// The returned error is a source-level failure.
func Load(ctx context.Context, fs afero.Fs, src Source, dec types.Decoder) ([]Table, error) {
	logger := logging.ForSource(logging.GetLogger("sources"), src.Name, string(src.Kind))
	logger.Debug().Msg("Loading source")

	var tables []Table
	var err error
	switch src.Kind {
	case KindDirectory:
		tables, err = loadDirectory(ctx, fs, src, dec)
	case KindZip:
		tables, err = loadZip(ctx, fs, src, dec)
	case KindSQLite:
		tables, err = loadSQLite(ctx, src)
	default:
		return nil, errors.Newf(errors.ErrSourceInvalid, "unknown source kind %q", src.Kind)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("tables", len(tables)).Msg("Source loaded")
	return tables, nil
}

func decodeFile(dec types.Decoder, tableName, stem, file string, raw []byte) Table {
	t := Table{TableName: tableName, FileStem: stem, File: file}
	t.Decoded, t.Err = dec.Decode(tableName, stem, raw)
	return t
}

package pipeline

import (
	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/paths"
	"github.com/arthur-debert/luadb/pkg/sources"
	"github.com/arthur-debert/luadb/pkg/tables"
	"github.com/arthur-debert/luadb/pkg/types"
)

// prepare normalizes a decoded table and binds it to its output path.
// The bool result is set for placeholder tables.
func prepare(src sources.Source, decoded *types.DecodedTable, opts Options) (*tables.PreprocessedTable, bool, error) {
	outPath, err := paths.Derive(paths.PathInput{
		TableName:  decoded.TableName,
		FileStem:   decoded.FileStem,
		IsBaseMod:  opts.IsBaseMod,
		CorePrefix: opts.CorePrefix,
		SourceStem: src.Stem,
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.GetErrorCode(err), "source %s", src.Name).
			WithDetail("source", src.Name)
	}

	if decoded.Missing {
		return &tables.PreprocessedTable{
			TableName:  decoded.TableName,
			OutputPath: outPath,
			Data:       tables.Empty(),
		}, true, nil
	}

	data, err := tables.Normalize(decoded.TableName, decoded.Fields, decoded.Rows)
	if err != nil {
		return nil, false, err
	}

	return &tables.PreprocessedTable{
		TableName:  decoded.TableName,
		OutputPath: outPath,
		Data:       data,
	}, false, nil
}

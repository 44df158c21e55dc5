package sources

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/spf13/afero"
)

const tableFileExt = ".tsv"

// tableFileStem returns the stem of a table file, or false when the file
// is not a table file
func tableFileStem(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := filepath.Ext(name)
	switch {
	case ext == "":
		return name, true
	case strings.EqualFold(ext, tableFileExt):
		return strings.TrimSuffix(name, ext), true
	}
	return "", false
}

func loadDirectory(ctx context.Context, fs afero.Fs, src Source, dec types.Decoder) ([]Table, error) {
	root := filepath.Join(src.Path, DBDir)
	tableDirs, err := afero.ReadDir(fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceInvalid, "source %s has no %s folder", src.Name, DBDir).
				WithDetail("path", src.Path)
		}
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot read %s", root)
	}

	var out []Table
	for _, td := range tableDirs {
		if !td.IsDir() {
			continue
		}
		files, err := afero.ReadDir(fs, filepath.Join(root, td.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot read table folder %s", td.Name())
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if f.IsDir() {
				continue
			}
			stem, ok := tableFileStem(f.Name())
			if !ok {
				continue
			}

			raw, err := afero.ReadFile(fs, filepath.Join(root, td.Name(), f.Name()))
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot read table file %s", f.Name())
			}
			out = append(out, decodeFile(dec, td.Name(), stem, path.Join(DBDir, td.Name(), f.Name()), raw))
		}
	}

	return out, nil
}

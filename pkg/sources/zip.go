package sources

import (
	"archive/zip"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/spf13/afero"
)

func loadZip(ctx context.Context, fs afero.Fs, src Source, dec types.Decoder) ([]Table, error) {
	f, err := fs.Open(src.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot open archive %s", src.Path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot stat archive %s", src.Path)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceInvalid, "%s is not a valid zip archive", src.Path).
			WithDetail("path", src.Path)
	}

	entries := make([]*zip.File, 0, len(zr.File))
	for _, zf := range zr.File {
		if !zf.FileInfo().IsDir() {
			entries = append(entries, zf)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var out []Table
	for _, zf := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parts := strings.Split(strings.TrimPrefix(zf.Name, "./"), "/")
		if len(parts) != 3 || parts[0] != DBDir || parts[1] == "" {
			continue
		}
		stem, ok := tableFileStem(parts[2])
		if !ok {
			continue
		}

		raw, err := readZipFile(zf)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceInvalid, "cannot read %s from %s", zf.Name, src.Name)
		}
		out = append(out, decodeFile(dec, parts[1], stem, strings.Join(parts, "/"), raw))
	}

	return out, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

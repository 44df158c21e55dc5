package sources

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/spf13/afero"
)

// Kind is the storage format of a source
type Kind string

const (
	KindDirectory Kind = "directory"
	KindZip       Kind = "zip"
	KindSQLite    Kind = "sqlite"
)

// DBDir is the folder holding table folders inside directory and zip sources
const DBDir = "db"

// Source is one mod to read tables from
type Source struct {
	// Name identifies the source in logs, conflicts and reports
	Name string `json:"name" yaml:"name" toml:"name"`

	// Stem is the file name without extension, used to name core files.
	// Directories have none.
	Stem string `json:"stem,omitempty" yaml:"stem,omitempty" toml:"stem,omitempty"`

	Kind Kind   `json:"kind" yaml:"kind" toml:"kind"`
	Path string `json:"path" yaml:"path" toml:"path"`
}

var sqliteExts = map[string]bool{".sqlite": true, ".sqlite3": true, ".db": true}

// Resolve inspects path and returns the source it denotes
func Resolve(fs afero.Fs, path string) (Source, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, errors.Newf(errors.ErrSourceNotFound, "source not found: %s", path).
				WithDetail("path", path)
		}
		return Source{}, errors.Wrapf(err, errors.ErrSourceAccess, "cannot access source %s", path).
			WithDetail("path", path)
	}

	base := filepath.Base(filepath.Clean(path))
	if info.IsDir() {
		return Source{Name: base, Kind: KindDirectory, Path: path}, nil
	}

	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch {
	case ext == ".zip":
		return Source{Name: base, Stem: stem, Kind: KindZip, Path: path}, nil
	case sqliteExts[ext]:
		return Source{Name: base, Stem: stem, Kind: KindSQLite, Path: path}, nil
	}

	return Source{}, errors.Newf(errors.ErrSourceInvalid, "unsupported source type: %s", path).
		WithDetail("path", path)
}

// ResolveAll resolves every path, keeping their order. Sources sharing a
// base name are named by their cleaned path instead, so each distinct path
// keeps its own identity in conflicts.
func ResolveAll(fs afero.Fs, paths []string) ([]Source, error) {
	out := make([]Source, 0, len(paths))
	seen := make(map[string]int, len(paths))
	for _, p := range paths {
		src, err := Resolve(fs, p)
		if err != nil {
			return nil, err
		}
		seen[src.Name]++
		out = append(out, src)
	}
	for i := range out {
		if seen[out[i].Name] > 1 {
			out[i].Name = filepath.Clean(out[i].Path)
		}
	}
	return out, nil
}

// ReadLoadOrder reads a load-order file and returns the archive paths in
// processing order: last listed first. Relative names are resolved against
// dataDir. Blank lines and lines starting with '#' are ignored.
func ReadLoadOrder(fs afero.Fs, path, dataDir string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrSourceNotFound, "load order file not found: %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "cannot open load order file %s", path)
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) && dataDir != "" {
			line = filepath.Join(dataDir, line)
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceAccess, "failed to read load order file %s", path)
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names, nil
}

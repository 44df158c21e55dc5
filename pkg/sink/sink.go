// Package sink writes serialized tables below an output directory.
//
// DirSink writes through an afero.Fs and is what tests use with an
// in-memory filesystem. TransactionalSink batches all writes into one
// synthfs pipeline so a failing write rolls back the ones before it.
package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/spf13/afero"
)

// File is one output file. Path is relative to the sink root and uses '/'.
type File struct {
	Path    string
	Content []byte
}

// Sink receives the complete set of output files of a run
type Sink interface {
	Write(ctx context.Context, files []File) error
}

// DirSink writes files one by one below Root
type DirSink struct {
	fs   afero.Fs
	root string
}

// NewDirSink returns a sink writing below root on fs
func NewDirSink(fs afero.Fs, root string) *DirSink {
	return &DirSink{fs: fs, root: root}
}

// Write implements Sink
func (s *DirSink) Write(ctx context.Context, files []File) error {
	logger := logging.GetLogger("sink")

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(s.root, filepath.FromSlash(f.Path))
		if err := s.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", f.Path).
				WithDetail("path", target)
		}
		if err := afero.WriteFile(s.fs, target, f.Content, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", f.Path).
				WithDetail("path", target)
		}
		logger.Debug().Str("path", target).Int("bytes", len(f.Content)).Msg("File written")
	}

	return nil
}

// Existing returns the files that are already present below root
func Existing(fs afero.Fs, root string, files []File) []string {
	var out []string
	for _, f := range files {
		if _, err := fs.Stat(filepath.Join(root, filepath.FromSlash(f.Path))); err == nil {
			out = append(out, f.Path)
		}
	}
	return out
}

// CheckOutDir fails with OutDirNotEmpty when root holds anything and force
// is not set. A missing root is fine.
func CheckOutDir(fs afero.Fs, root string, force bool) error {
	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access output directory %s", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrFileAccess, "output path %s is not a directory", root).
			WithDetail("path", root)
	}
	if force {
		return nil
	}

	empty, err := afero.IsEmpty(fs, root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read output directory %s", root)
	}
	if !empty {
		return errors.Newf(errors.ErrOutDirNotEmpty,
			"output directory %s is not empty, use --force to write into it", root).
			WithDetail("path", root)
	}
	return nil
}

package sink

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// TransactionalSink writes all files in a single synthfs run
type TransactionalSink struct {
	root       string
	filesystem filesystem.FullFileSystem
}

// NewTransactionalSink returns a sink writing below root on the OS filesystem
func NewTransactionalSink(root string) (*TransactionalSink, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", root)
	}

	// Use PathAwareFileSystem to handle absolute paths directly
	osfs := filesystem.NewOSFileSystem("/")
	return &TransactionalSink{
		root:       abs,
		filesystem: synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
	}, nil
}

// Write implements Sink
func (s *TransactionalSink) Write(ctx context.Context, files []File) error {
	if len(files) == 0 {
		return nil
	}
	logger := logging.GetLogger("sink.transactional")

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(files))
	for i, f := range files {
		target := filepath.Join(s.root, filepath.FromSlash(f.Path))
		id := fmt.Sprintf("write_%d_%s", i, filepath.Base(target))
		ops = append(ops, sfs.CustomOperationWithID(id, writeFileOperation(target, f.Content)))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	logger.Info().
		Int("operationCount", len(ops)).
		Str("root", s.root).
		Msg("Executing synthfs operations")

	if _, err := synthfs.RunWithOptions(ctx, s.filesystem, options, ops...); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write output files to %s", s.root).
			WithDetail("root", s.root)
	}
	return nil
}

func writeFileOperation(target string, content []byte) func(context.Context, filesystem.FileSystem) error {
	return func(ctx context.Context, fs filesystem.FileSystem) error {
		parentDir := filepath.Dir(target)
		if err := fs.MkdirAll(parentDir, 0755); err != nil {
			return fmt.Errorf("failed to create parent directory %s: %w", parentDir, err)
		}
		if err := fs.WriteFile(target, content, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		return nil
	}
}

// Package pipeline runs a conversion: it loads every source, normalizes
// its tables, merges them by output path and hands the serialized files to
// a sink.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/luadb/pkg/conflicts"
	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/luawriter"
	"github.com/arthur-debert/luadb/pkg/sink"
	"github.com/arthur-debert/luadb/pkg/sources"
	"github.com/arthur-debert/luadb/pkg/tables"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Options configures a run
type Options struct {
	// Sources in processing order; later sources win conflicts
	Sources []sources.Source

	OutDir        string
	Force         bool
	DryRun        bool
	Transactional bool

	IsBaseMod     bool
	CorePrefix    string
	ScriptCheck   string
	EscapeStrings bool

	// Jobs bounds how many sources are loaded at once. Values below 2 load
	// sequentially.
	Jobs int

	Decoder types.Decoder

	// Fs is used for reading sources and checking the output directory.
	// Defaults to the OS filesystem.
	Fs afero.Fs

	// Sink overrides the sink chosen from OutDir and Transactional
	Sink sink.Sink
}

// Skipped is a table left out of the output
type Skipped struct {
	Source string           `json:"source" yaml:"source" toml:"source"`
	Table  string           `json:"table" yaml:"table" toml:"table"`
	File   string           `json:"file" yaml:"file" toml:"file"`
	Code   errors.ErrorCode `json:"code" yaml:"code" toml:"code"`
	Reason string           `json:"reason" yaml:"reason" toml:"reason"`
}

// TableSummary describes one written table
type TableSummary struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Source    string `json:"source" yaml:"source" toml:"source"`
	Table     string `json:"table" yaml:"table" toml:"table"`
	Shape     string `json:"shape" yaml:"shape" toml:"shape"`
	Rows      int    `json:"rows" yaml:"rows" toml:"rows"`
	Collapsed int    `json:"collapsed,omitempty" yaml:"collapsed,omitempty" toml:"collapsed,omitempty"`

	// Placeholder is set when the table had no definition and is written empty
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
}

// Result collects everything a run did
type Result struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	DryRun   bool
	OutDir   string

	Sources   []sources.Source
	Tables    []TableSummary
	Written   []string
	Conflicts []conflicts.ConflictRecord
	Skipped   []Skipped

	// Overwritten lists output files that already existed before the run
	Overwritten []string
}

type loadedTable struct {
	table       *tables.PreprocessedTable
	placeholder bool
}

type sourceResult struct {
	tables  []loadedTable
	skipped []Skipped
	err     error
}

// Run executes a conversion
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("pipeline")
	done := logging.LogOperationStart(logger, "convert")
	defer done()

	if opts.Decoder == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no decoder configured")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	result := &Result{
		RunID:   uuid.New().String(),
		Started: time.Now(),
		DryRun:  opts.DryRun,
		OutDir:  opts.OutDir,
		Sources: opts.Sources,
	}
	logger = logging.ForRun(logger, result.RunID)

	if err := sink.CheckOutDir(opts.Fs, opts.OutDir, opts.Force); err != nil {
		return nil, err
	}

	loaded, err := loadAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	tracker := conflicts.NewTracker()
	placeholders := make(map[*tables.PreprocessedTable]bool)
	for i, src := range opts.Sources {
		result.Skipped = append(result.Skipped, loaded[i].skipped...)
		for _, lt := range loaded[i].tables {
			tracker.Record(src.Name, lt.table)
			if lt.placeholder {
				placeholders[lt.table] = true
			}
		}
	}
	result.Conflicts = tracker.Conflicts()

	writerOpts := luawriter.Options{ScriptCheck: opts.ScriptCheck, EscapeStrings: opts.EscapeStrings}
	stored := tracker.Tables()
	files := make([]sink.File, 0, len(stored))
	for _, t := range stored {
		owner, _ := tracker.Owner(t.Path())
		result.Tables = append(result.Tables, TableSummary{
			Path:        t.Path(),
			Source:      owner,
			Table:       t.TableName,
			Shape:       t.Data.Shape.String(),
			Rows:        t.Data.Len(),
			Collapsed:   t.Data.Collapsed,
			Placeholder: placeholders[t],
		})
		logger.Info().Str("path", t.Path()).Msg("Creating script")
		files = append(files, sink.File{
			Path:    t.Path(),
			Content: []byte(luawriter.Serialize(t, writerOpts)),
		})
	}

	result.Overwritten = sink.Existing(opts.Fs, opts.OutDir, files)
	for _, path := range result.Overwritten {
		logger.Warn().Str("path", path).Msg("Overwriting existing file")
	}

	if opts.DryRun {
		logger.Info().Int("files", len(files)).Msg("Dry run, nothing written")
		result.Duration = time.Since(result.Started)
		return result, nil
	}

	out, err := chooseSink(opts)
	if err != nil {
		return nil, err
	}
	if err := out.Write(ctx, files); err != nil {
		return nil, err
	}
	for _, f := range files {
		result.Written = append(result.Written, f.Path)
	}

	result.Duration = time.Since(result.Started)
	logger.Info().
		Int("written", len(result.Written)).
		Int("conflicts", len(result.Conflicts)).
		Int("skipped", len(result.Skipped)).
		Msg("Conversion finished")
	return result, nil
}

func chooseSink(opts Options) (sink.Sink, error) {
	if opts.Sink != nil {
		return opts.Sink, nil
	}
	if opts.Transactional {
		return sink.NewTransactionalSink(opts.OutDir)
	}
	return sink.NewDirSink(opts.Fs, opts.OutDir), nil
}

// loadAll loads every source, in parallel when Jobs allows it. Results are
// indexed by source position so merging never depends on completion order.
func loadAll(ctx context.Context, opts Options) ([]sourceResult, error) {
	results := make([]sourceResult, len(opts.Sources))

	if opts.Jobs < 2 {
		for i, src := range opts.Sources {
			results[i] = loadSource(ctx, opts, src)
			if results[i].err != nil {
				return nil, results[i].err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, src := range opts.Sources {
		g.Go(func() error {
			results[i] = loadSource(gctx, opts, src)
			return results[i].err
		})
	}
	waitErr := g.Wait()

	// Report the failure of the earliest source, not the first to fail
	for _, r := range results {
		if r.err != nil && !isCancellation(r.err) {
			return nil, r.err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return results, nil
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

func loadSource(ctx context.Context, opts Options, src sources.Source) sourceResult {
	logger := logging.ForSource(logging.GetLogger("pipeline"), src.Name, string(src.Kind))
	logger.Info().Str("path", src.Path).Msg("Processing source")

	loaded, err := sources.Load(ctx, opts.Fs, src, opts.Decoder)
	if err != nil {
		return sourceResult{err: err}
	}

	var res sourceResult
	for _, lt := range loaded {
		skip := func(err error) {
			logging.ForTable(logger, lt.TableName, lt.File).Warn().Err(err).Msg("Skipping table")
			res.skipped = append(res.skipped, Skipped{
				Source: src.Name,
				Table:  lt.TableName,
				File:   lt.File,
				Code:   errors.GetErrorCode(err),
				Reason: err.Error(),
			})
		}

		if lt.Err != nil {
			skip(lt.Err)
			continue
		}

		table, placeholder, err := prepare(src, lt.Decoded, opts)
		if err != nil {
			if errors.IsTableLevel(err) {
				skip(err)
				continue
			}
			return sourceResult{err: err}
		}
		if placeholder {
			logging.ForTable(logger, lt.TableName, lt.File).Warn().
				Msg("No definition for table, writing an empty placeholder")
		}
		logging.Dump(logger, table.Path(), table)
		res.tables = append(res.tables, loadedTable{table: table, placeholder: placeholder})
	}
	return res
}

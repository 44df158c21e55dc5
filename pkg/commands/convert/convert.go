// Package convert implements the convert command: it resolves the configured
// sources, runs the pipeline and optionally writes a run report.
package convert

import (
	"context"

	"github.com/arthur-debert/luadb/pkg/config"
	"github.com/arthur-debert/luadb/pkg/decoder"
	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/pipeline"
	"github.com/arthur-debert/luadb/pkg/report"
	"github.com/arthur-debert/luadb/pkg/schema"
	"github.com/arthur-debert/luadb/pkg/sources"
	"github.com/spf13/afero"
)

// ConvertOptions defines the options for the Convert command.
type ConvertOptions struct {
	// Config is the loaded and validated configuration.
	Config *config.Config
	// DryRun computes everything but writes no Lua files and no report.
	DryRun bool
	// FileSystem is used for sources, the load order file, the output and
	// the report. Defaults to the OS filesystem.
	FileSystem afero.Fs
}

// Convert runs one conversion and returns its report.
func Convert(ctx context.Context, opts ConvertOptions) (*report.Report, error) {
	log := logging.GetLogger("commands.convert")
	log.Debug().Str("command", "Convert").Bool("dryRun", opts.DryRun).Msg("Executing command")

	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no configuration given")
	}
	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}

	// 1. Table definitions
	if cfg.Schema.Path == "" {
		return nil, errors.New(errors.ErrConfigValid, "schema.path is required").
			WithDetail("key", "schema.path")
	}
	defs, err := schema.Load(fs, cfg.Schema.Path)
	if err != nil {
		return nil, err
	}

	// 2. Sources, in processing order
	paths, err := SourcePaths(fs, cfg)
	if err != nil {
		return nil, err
	}
	srcs, err := sources.ResolveAll(fs, paths)
	if err != nil {
		return nil, err
	}
	log.Info().Int("sources", len(srcs)).Msg("Resolved sources")

	// 3. Run
	result, err := pipeline.Run(ctx, pipeline.Options{
		Sources:       srcs,
		OutDir:        cfg.Output.Dir,
		Force:         cfg.Output.Force,
		DryRun:        opts.DryRun,
		Transactional: cfg.Output.Transactional,
		IsBaseMod:     cfg.Mod.Base,
		CorePrefix:    cfg.Mod.CorePrefix,
		ScriptCheck:   cfg.Mod.ScriptCheck,
		EscapeStrings: cfg.Output.EscapeStrings,
		Jobs:          cfg.Sources.Jobs,
		Decoder:       decoder.NewTSV(defs),
		Fs:            fs,
	})
	if err != nil {
		return nil, err
	}

	// 4. Report
	rep := report.FromResult(result)
	if cfg.Report.Path != "" && !opts.DryRun {
		if err := rep.Write(fs, cfg.Report.Path, cfg.Report.Format); err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Report.Path).Msg("Wrote run report")
	}
	return rep, nil
}

// SourcePaths lists the source paths of cfg in processing order: the load
// order file's archives (last listed first) followed by the explicit
// paths, so explicit sources win conflicts.
func SourcePaths(fs afero.Fs, cfg *config.Config) ([]string, error) {
	var paths []string
	if cfg.Sources.LoadOrder != "" {
		ordered, err := sources.ReadLoadOrder(fs, cfg.Sources.LoadOrder, cfg.Sources.DataDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, ordered...)
	}
	paths = append(paths, cfg.Sources.Paths...)
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "no sources to convert")
	}
	return paths, nil
}

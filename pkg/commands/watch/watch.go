// Package watch implements the watch command: convert once, then convert
// again every time a source, the schema or the load order file changes.
package watch

import (
	"context"

	"github.com/arthur-debert/luadb/pkg/commands/convert"
	"github.com/arthur-debert/luadb/pkg/config"
	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/report"
	fswatch "github.com/arthur-debert/luadb/pkg/watch"
	"github.com/spf13/afero"
)

// WatchOptions defines the options for the Watch command.
type WatchOptions struct {
	Config *config.Config
	DryRun bool
	// OnRun is called after every conversion with its report or error.
	OnRun func(rep *report.Report, err error)
}

// Watch blocks until ctx is cancelled. The first conversion must succeed;
// later failures are reported through OnRun and watching goes on.
func Watch(ctx context.Context, opts WatchOptions) error {
	log := logging.GetLogger("commands.watch")
	log.Debug().Str("command", "Watch").Msg("Executing command")

	if opts.Config == nil {
		return errors.New(errors.ErrInvalidInput, "no configuration given")
	}
	onRun := opts.OnRun
	if onRun == nil {
		onRun = func(*report.Report, error) {}
	}

	// Work on a copy: every run after the first overwrites our own output.
	cfg := *opts.Config
	run := func(ctx context.Context) error {
		rep, err := convert.Convert(ctx, convert.ConvertOptions{Config: &cfg, DryRun: opts.DryRun})
		onRun(rep, err)
		if err == nil {
			cfg.Output.Force = true
		}
		return err
	}

	if err := run(ctx); err != nil {
		return err
	}

	paths, err := WatchedPaths(afero.NewOsFs(), &cfg)
	if err != nil {
		return err
	}
	var ignore []string
	if cfg.Output.Dir != "" {
		ignore = append(ignore, cfg.Output.Dir)
	}
	if cfg.Report.Path != "" {
		ignore = append(ignore, cfg.Report.Path)
	}

	return fswatch.New(paths, ignore, cfg.Watch.Debounce).Run(ctx, run)
}

// WatchedPaths lists every path whose change should trigger a new run: the
// sources, the schema file and the load order file.
func WatchedPaths(fs afero.Fs, cfg *config.Config) ([]string, error) {
	paths, err := convert.SourcePaths(fs, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Schema.Path != "" {
		paths = append(paths, cfg.Schema.Path)
	}
	if cfg.Sources.LoadOrder != "" {
		paths = append(paths, cfg.Sources.LoadOrder)
	}
	return paths, nil
}

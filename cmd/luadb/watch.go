package luadb

import (
	"github.com/arthur-debert/luadb/pkg/commands/watch"
	"github.com/arthur-debert/luadb/pkg/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	bindings := append([]flagKey{{"debounce", "watch.debounce"}}, convertBindings...)

	cmd := &cobra.Command{
		Use:     "watch [sources...]",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(convertOverrides(cmd, args, bindings))
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			first := true
			err = watch.Watch(cmd.Context(), watch.WatchOptions{
				Config: cfg,
				DryRun: opts.dryRun,
				OnRun: func(rep *report.Report, err error) {
					var rerr error
					if err != nil {
						rerr = renderer.RenderError(err)
					} else {
						rerr = renderer.RenderResult(rep)
					}
					if rerr != nil {
						log.Warn().Err(rerr).Msg("Failed to render run")
					}
					if first && err == nil {
						_ = renderer.RenderMessage(MsgWatching)
					}
					first = false
				},
			})
			if err != nil {
				return err
			}
			return renderer.RenderMessage(MsgWatchStopped)
		},
	}
	addConvertFlags(cmd)
	cmd.Flags().Duration("debounce", 0, MsgFlagDebounce)
	return cmd
}

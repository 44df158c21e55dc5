package luadb

import (
	"github.com/arthur-debert/luadb/pkg/commands/convert"
	"github.com/spf13/cobra"
)

var convertBindings = []flagKey{
	{"out", "output.dir"},
	{"force", "output.force"},
	{"transactional", "output.transactional"},
	{"escape-strings", "output.escape_strings"},
	{"base", "mod.base"},
	{"core-prefix", "mod.core_prefix"},
	{"script-check", "mod.script_check"},
	{"schema", "schema.path"},
	{"load-order", "sources.load_order"},
	{"data-dir", "sources.data_dir"},
	{"jobs", "sources.jobs"},
	{"report", "report.path"},
	{"report-format", "report.format"},
}

// addConvertFlags registers the flags shared by convert and watch. Their
// values are only read through overrides, so unset flags leave the
// configuration alone.
func addConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("out", "o", "", MsgFlagOut)
	f.BoolP("force", "f", false, MsgFlagForce)
	f.Bool("transactional", false, MsgFlagTransactional)
	f.Bool("escape-strings", false, MsgFlagEscape)
	f.Bool("base", false, MsgFlagBase)
	f.String("core-prefix", "", MsgFlagCorePrefix)
	f.String("script-check", "", MsgFlagScriptCheck)
	f.StringP("schema", "s", "", MsgFlagSchema)
	f.String("load-order", "", MsgFlagLoadOrder)
	f.String("data-dir", "", MsgFlagDataDir)
	f.IntP("jobs", "j", 1, MsgFlagJobs)
	f.String("report", "", MsgFlagReport)
	f.String("report-format", "", MsgFlagReportFormat)
}

// convertOverrides turns set flags and positional sources into config
// overrides
func convertOverrides(cmd *cobra.Command, args []string, bindings []flagKey) map[string]interface{} {
	out := overrides(cmd, bindings)
	if len(args) > 0 {
		out["sources.paths"] = args
	}
	return out
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "convert [sources...]",
		Short:   MsgConvertShort,
		Long:    MsgConvertLong,
		Example: MsgConvertExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(convertOverrides(cmd, args, convertBindings))
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			rep, err := convert.Convert(cmd.Context(), convert.ConvertOptions{
				Config: cfg,
				DryRun: opts.dryRun,
			})
			if err != nil {
				return err
			}
			return renderer.RenderResult(rep)
		},
	}
	addConvertFlags(cmd)
	return cmd
}

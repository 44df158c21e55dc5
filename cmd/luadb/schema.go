package luadb

import (
	"fmt"

	"github.com/arthur-debert/luadb/pkg/commands/schemacheck"
	"github.com/arthur-debert/luadb/pkg/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		Short:   MsgSchemaShort,
		GroupID: "core",
	}
	cmd.AddCommand(newSchemaCheckCmd(opts))
	return cmd
}

func newSchemaCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [schema-file]",
		Short: MsgSchemaCheckShort,
		Long:  MsgSchemaCheckLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				// No validation here: schema check needs no sources
				cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile})
				if err != nil {
					return fmt.Errorf(MsgErrLoadConfig, err)
				}
				path = cfg.Schema.Path
			}
			if path == "" {
				return fmt.Errorf(MsgErrNoSchema)
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := schemacheck.Check(afero.NewOsFs(), path)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}
}

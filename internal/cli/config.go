package cli

import (
	"github.com/spf13/cobra"

	"exportmonitor/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <config> [org-config]",
		Short: "Validate the configuration and print it with defaults applied",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)

			if len(args) == 2 {
				cfg, err = config.Load(args[0], args[1])
			} else {
				cfg, err = config.LoadConfig(args[0])
			}

			if err != nil {
				return err
			}

			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
}

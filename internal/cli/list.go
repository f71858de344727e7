package cli

import (
	"github.com/spf13/cobra"

	"exportmonitor/internal/config"
	"exportmonitor/internal/freshness"
	"exportmonitor/internal/logger"
	"exportmonitor/internal/report"
	"exportmonitor/internal/storage"
)

func newListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list <config> <bucket>",
		Short: "Print the export artifacts found in a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args[0])
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.LoggerOptions(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			lister, err := storage.New(cmd.Context(), cfg.StorageOptions())
			if err != nil {
				return err
			}

			artifacts, err := freshness.NewCatalog(lister, log, 1).Artifacts(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			return report.WriteArtifacts(cmd.OutOrStdout(), output, artifacts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", report.FormatText, "output format: text or json")

	return cmd
}

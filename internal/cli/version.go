package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X exportmonitor/internal/cli.Version=...".
var Version = "dev"

func versionString() string {
	return fmt.Sprintf("export-monitor %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// NewVersionCmd prints version information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}

// Package cli implements the export-monitor command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"exportmonitor/internal/freshness"
)

// ExitError carries a process exit code out of a command without an
// additional message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd creates the export-monitor command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(clockwork.NewRealClock())
}

func newRootCmd(clock clockwork.Clock) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-monitor",
		Short: "Check that every organization's data export is recent",
		Long: `export-monitor lists the export buckets of the configured organizations
and fails when an organization has no export artifact or when its most
recent one is older than the freshness window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCheckCmd(clock))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(NewVersionCmd())

	cmd.Version = Version
	cmd.SetVersionTemplate(versionString() + "\n")

	return cmd
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, NewRootCmd(), args, stdout, stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return freshness.ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	return freshness.ExitError
}

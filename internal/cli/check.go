package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"exportmonitor/internal/config"
	"exportmonitor/internal/freshness"
	"exportmonitor/internal/logger"
	"exportmonitor/internal/report"
	"exportmonitor/internal/storage"
)

type checkOptions struct {
	orgs      []string
	output    string
	logLevel  string
	logFormat string
	window    int
	timeout   time.Duration
	dryRun    bool
}

func newCheckCmd(clock clockwork.Clock) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <config> <org-config>",
		Short: "Verify that every monitored organization has a fresh export",
		Long: `check lists the output bucket of every monitored organization, picks the
most recent <organization>-*.zip artifact at the bucket root and compares
it with the freshness window.

Exit status is 0 when every organization is fresh, 1 when at least one
export is missing or stale and 2 when the check could not run.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], opts, clock)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.window, "window", 0, "allowed artifact age in days (overrides monitor.window)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "only list buckets and log the results")
	flags.StringArrayVar(&opts.orgs, "org", nil, "check only organizations matching this glob pattern (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", report.FormatText, "report format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides logging.level)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides logging.format)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "abort the check after this duration (0 disables)")

	return cmd
}

func runCheck(cmd *cobra.Command, configPath, orgConfigPath string, opts *checkOptions, clock clockwork.Clock) error {
	if opts.output != report.FormatText && opts.output != report.FormatJSON {
		return fmt.Errorf("%w: got %q", report.ErrUnknownFormat, opts.output)
	}

	cfg, err := config.Load(configPath, orgConfigPath)
	if err != nil {
		return err
	}

	if err := applyCheckOverrides(cmd, cfg, opts); err != nil {
		return err
	}

	log, err := logger.New(cfg.LoggerOptions(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	log.Debug("configuration loaded", "config", cfg.String())

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	backend, err := storage.New(ctx, cfg.StorageOptions())
	if err != nil {
		return err
	}

	lister := storage.NewCountingLister(backend)

	checkerOpts := cfg.CheckerOptions()
	checkerOpts.Clock = clock

	checker, err := freshness.NewChecker(lister, log, checkerOpts)
	if err != nil {
		return err
	}

	result, err := checker.Run(ctx, cfg.ResolveOrganizations())

	log.Debug("bucket listings", "buckets", checker.Catalog().Buckets(), "calls", lister.Total())

	if err != nil {
		log.Error("freshness check aborted", "error", err)
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), opts.output, result); err != nil {
		return err
	}

	if code := freshness.ExitCode(result, nil); code != freshness.ExitOK {
		return &ExitError{Code: code}
	}

	return nil
}

// applyCheckOverrides applies explicitly set flags over cfg and validates
// the result again.
func applyCheckOverrides(cmd *cobra.Command, cfg *config.Config, opts *checkOptions) error {
	flags := cmd.Flags()

	if flags.Changed("window") {
		cfg.Monitor.Window = opts.window
	}

	if flags.Changed("dry-run") {
		cfg.Monitor.DryRun = opts.dryRun
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}

	if len(opts.orgs) > 0 {
		selected, err := cfg.Organizations.Select(opts.orgs)
		if err != nil {
			return err
		}

		cfg.Organizations = selected
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

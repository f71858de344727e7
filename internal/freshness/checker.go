package freshness

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"exportmonitor/internal/logger"
	"exportmonitor/internal/storage"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitError  = 2
)

// ErrInvalidWindow is returned for a window below one day.
var ErrInvalidWindow = errors.New("window must be at least 1 day")

// Options configures a Checker.
type Options struct {
	Clock       clockwork.Clock
	Window      int
	Concurrency int
	DryRun      bool
}

// Checker runs the freshness check over a set of organizations.
type Checker struct {
	catalog *Catalog
	logger  *logger.Logger
	clock   clockwork.Clock
	window  int
	dryRun  bool
}

// NewChecker creates a checker listing buckets through lister. A zero
// window means DefaultWindow and a nil clock the real clock.
func NewChecker(lister storage.Lister, log *logger.Logger, opts Options) (*Checker, error) {
	window := opts.Window
	if window == 0 {
		window = DefaultWindow
	}

	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Checker{
		catalog: NewCatalog(lister, log, opts.Concurrency),
		logger:  log,
		clock:   clock,
		window:  window,
		dryRun:  opts.DryRun,
	}, nil
}

// Catalog returns the artifact cache of this checker.
func (c *Checker) Catalog() *Catalog {
	return c.catalog
}

// Run checks orgs and logs one line per monitored organization.
// A returned error means the run could not complete; the report is then empty.
func (c *Checker) Run(ctx context.Context, orgs []Organization) (Report, error) {
	if c.dryRun {
		c.logger.Info("dry run: only listing buckets and logging results")
	}

	var buckets []string

	for _, org := range orgs {
		if !org.Monitored {
			c.logger.Debug("skipping unmonitored organization", "organization", org.Name)
			continue
		}

		buckets = append(buckets, org.Bucket)
	}

	if err := c.catalog.Prefetch(ctx, buckets); err != nil {
		return Report{}, err
	}

	artifactsByBucket := make(map[string][]ExportArtifact, len(buckets))

	for _, bucket := range buckets {
		artifacts, err := c.catalog.Artifacts(ctx, bucket)
		if err != nil {
			return Report{}, err
		}

		artifactsByBucket[bucket] = artifacts
	}

	latest := SelectMostRecent(orgs, artifactsByBucket)
	report := Evaluate(orgs, latest, c.clock.Now(), c.window)

	c.logReport(report)

	return report, nil
}

func (c *Checker) logReport(report Report) {
	for _, s := range report.Statuses {
		log := c.logger.With("organization", s.Organization, "bucket", s.Bucket)

		switch s.Status {
		case StatusOK:
			log.Info("export is fresh", "key", s.Artifact.Key, "timestamp", s.Artifact.Timestamp)
		case StatusStale:
			log.Error("export is stale", "key", s.Artifact.Key, "timestamp", s.Artifact.Timestamp, "cutoff", report.Cutoff)
		case StatusMissing:
			log.Error("no export found")
		}
	}

	counts := report.Counts()
	args := []any{
		"window_days", report.Window,
		"ok", counts[StatusOK],
		"missing", counts[StatusMissing],
		"stale", counts[StatusStale],
	}

	if report.Passed {
		c.logger.Info("freshness check passed", args...)
	} else {
		c.logger.Error("freshness check failed", args...)
	}
}

// ExitCode maps the outcome of Run to a process exit code.
func ExitCode(report Report, err error) int {
	switch {
	case err != nil:
		return ExitError
	case !report.Passed:
		return ExitFailed
	}

	return ExitOK
}

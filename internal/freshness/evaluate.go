package freshness

import (
	"time"
)

// DefaultWindow is the allowed artifact age in days.
const DefaultWindow = 6

// Status classifies one monitored organization.
type Status string

// Organization states.
const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusStale   Status = "stale"
)

func (s Status) String() string {
	return string(s)
}

// Failed reports whether the status fails the run.
func (s Status) Failed() bool {
	return s == StatusMissing || s == StatusStale
}

// OrganizationStatus explains the verdict for one organization.
type OrganizationStatus struct {
	Artifact     *ExportArtifact `json:"artifact,omitempty"`
	Organization string          `json:"organization"`
	Bucket       string          `json:"bucket"`
	Status       Status          `json:"status"`
}

// Age returns how old the artifact is at now, zero when there is none.
func (s OrganizationStatus) Age(now time.Time) time.Duration {
	if s.Artifact == nil {
		return 0
	}

	return now.Sub(s.Artifact.Timestamp)
}

// Report is the outcome of one run.
type Report struct {
	CheckedAt time.Time            `json:"checked_at"`
	Cutoff    time.Time            `json:"cutoff"`
	Statuses  []OrganizationStatus `json:"organizations"`
	Window    int                  `json:"window_days"`
	Passed    bool                 `json:"passed"`
}

// Failed returns the missing and stale organizations in configuration order.
func (r Report) Failed() []OrganizationStatus {
	var failed []OrganizationStatus

	for _, s := range r.Statuses {
		if s.Status.Failed() {
			failed = append(failed, s)
		}
	}

	return failed
}

// Counts returns the number of organizations per status.
func (r Report) Counts() map[Status]int {
	counts := map[Status]int{StatusOK: 0, StatusMissing: 0, StatusStale: 0}
	for _, s := range r.Statuses {
		counts[s.Status]++
	}

	return counts
}

// Cutoff returns now minus window days, in UTC.
func Cutoff(now time.Time, window int) time.Time {
	return now.UTC().Add(-time.Duration(window) * 24 * time.Hour)
}

// Evaluate classifies every monitored organization, in configuration order.
// An artifact older than the cutoff is stale; one exactly at the cutoff is ok.
func Evaluate(orgs []Organization, latest map[string]*ExportArtifact, now time.Time, window int) Report {
	cutoff := Cutoff(now, window)

	report := Report{
		CheckedAt: now.UTC(),
		Cutoff:    cutoff,
		Window:    window,
		Passed:    true,
	}

	for _, org := range orgs {
		if !org.Monitored {
			continue
		}

		status := OrganizationStatus{
			Organization: org.Name,
			Bucket:       org.Bucket,
			Artifact:     latest[org.Name],
		}

		switch {
		case status.Artifact == nil:
			status.Status = StatusMissing
		case status.Artifact.Timestamp.Before(cutoff):
			status.Status = StatusStale
		default:
			status.Status = StatusOK
		}

		if status.Status.Failed() {
			report.Passed = false
		}

		report.Statuses = append(report.Statuses, status)
	}

	return report
}

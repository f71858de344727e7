package freshness

// Organization is the configuration of one organization as the checker
// consumes it.
type Organization struct {
	Name      string `json:"name"`
	Bucket    string `json:"bucket"`
	Monitored bool   `json:"monitored"`
}

// MostRecent returns the artifact of organization with the latest timestamp,
// or nil when there is none. Names match exactly. On equal timestamps the
// first artifact in listing order is kept; callers must not rely on that.
func MostRecent(artifacts []ExportArtifact, organization string) *ExportArtifact {
	var best *ExportArtifact

	for i := range artifacts {
		if artifacts[i].Organization != organization {
			continue
		}

		if best == nil || artifacts[i].Timestamp.After(best.Timestamp) {
			candidate := artifacts[i]
			best = &candidate
		}
	}

	return best
}

// SelectMostRecent maps every monitored organization that has at least one
// artifact in its bucket to its most recent artifact. Unmonitored
// organizations are not looked up.
func SelectMostRecent(orgs []Organization, artifactsByBucket map[string][]ExportArtifact) map[string]*ExportArtifact {
	latest := make(map[string]*ExportArtifact, len(orgs))

	for _, org := range orgs {
		if !org.Monitored {
			continue
		}

		if artifact := MostRecent(artifactsByBucket[org.Bucket], org.Name); artifact != nil {
			latest[org.Name] = artifact
		}
	}

	return latest
}

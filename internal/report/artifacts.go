package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"exportmonitor/internal/freshness"
)

// WriteArtifacts renders the export artifacts of one bucket.
func WriteArtifacts(w io.Writer, format string, artifacts []freshness.ExportArtifact) error {
	switch format {
	case FormatText, "":
		return artifactsText(w, artifacts)
	case FormatJSON:
		if artifacts == nil {
			artifacts = []freshness.ExportArtifact{}
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(artifacts); err != nil {
			return fmt.Errorf("failed to encode artifacts: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: got %q", ErrUnknownFormat, format)
}

func artifactsText(w io.Writer, artifacts []freshness.ExportArtifact) error {
	var sb strings.Builder

	if len(artifacts) == 0 {
		sb.WriteString("no export artifacts\n")
	} else {
		rows := [][]string{{"Organization", "Key", "Last modified", "Size"}}
		for _, a := range artifacts {
			rows = append(rows, []string{a.Organization, a.Key, a.Timestamp.Format(time.RFC3339Nano), strconv.FormatInt(a.Size, 10)})
		}

		for _, line := range Table(rows) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

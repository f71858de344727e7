// Package report renders freshness reports for people and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"exportmonitor/internal/freshness"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for an output format other than text or json.
var ErrUnknownFormat = errors.New("output format must be 'text' or 'json'")

const placeholder = "-"

// Write renders r in the given format.
func Write(w io.Writer, format string, r freshness.Report) error {
	switch format {
	case FormatText, "":
		return Text(w, r)
	case FormatJSON:
		return JSON(w, r)
	}

	return fmt.Errorf("%w: got %q", ErrUnknownFormat, format)
}

// Text writes a table with one row per organization followed by the verdict.
func Text(w io.Writer, r freshness.Report) error {
	rows := [][]string{{"Organization", "Status", "Bucket", "Key", "Last modified", "Age"}}

	for _, s := range r.Statuses {
		key, modified, age := placeholder, placeholder, placeholder
		if s.Artifact != nil {
			key = s.Artifact.Key
			modified = s.Artifact.Timestamp.Format(time.RFC3339)
			age = FormatAge(s.Age(r.CheckedAt))
		}

		rows = append(rows, []string{s.Organization, strings.ToUpper(s.Status.String()), s.Bucket, key, modified, age})
	}

	var sb strings.Builder

	if len(r.Statuses) > 0 {
		for _, line := range Table(rows) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
	}

	sb.WriteString(Verdict(r))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())

	return err
}

// JSON writes the report as an indented JSON document.
func JSON(w io.Writer, r freshness.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}

// Verdict summarizes the report in one line.
func Verdict(r freshness.Report) string {
	counts := r.Counts()

	verdict := "PASSED"
	if !r.Passed {
		verdict = "FAILED"
	}

	return fmt.Sprintf("%s: %d ok, %d missing, %d stale (window %d days, cutoff %s)",
		verdict,
		counts[freshness.StatusOK],
		counts[freshness.StatusMissing],
		counts[freshness.StatusStale],
		r.Window,
		r.Cutoff.Format(time.RFC3339),
	)
}

// FormatAge renders a duration as days and hours, e.g. "8d 3h".
func FormatAge(d time.Duration) string {
	if d < 0 {
		return "in " + FormatAge(-d)
	}

	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)

	return fmt.Sprintf("%dd %dh", days, hours)
}

// Table aligns rows as a markdown table. The first row is the header;
// columns are padded by display width so wide characters line up.
func Table(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Separator rows need at least "---".
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	lines := make([]string, 0, len(rows)+1)

	for i, row := range rows {
		lines = append(lines, formatRow(row, colWidths))

		if i == 0 {
			var sb strings.Builder

			sb.WriteString("|")

			for _, width := range colWidths {
				sb.WriteString(" ")
				sb.WriteString(strings.Repeat("-", width))
				sb.WriteString(" |")
			}

			lines = append(lines, sb.String())
		}
	}

	return lines
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

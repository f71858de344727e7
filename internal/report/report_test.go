package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exportmonitor/internal/freshness"
)

func sampleReport() freshness.Report {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orgs := []freshness.Organization{
		{Name: "OrgA", Bucket: "shared", Monitored: true},
		{Name: "OrgB", Bucket: "shared", Monitored: true},
		{Name: "OrgC", Bucket: "c", Monitored: true},
	}
	latest := map[string]*freshness.ExportArtifact{
		"OrgA": {Bucket: "shared", Key: "OrgA-2024-01-09.zip", Organization: "OrgA", Timestamp: now.Add(-27 * time.Hour)},
		"OrgC": {Bucket: "c", Key: "OrgC-2024-01-01.zip", Organization: "OrgC", Timestamp: now.Add(-9 * 24 * time.Hour)},
	}

	return freshness.Evaluate(orgs, latest, now, 6)
}

func TestTable(t *testing.T) {
	lines := Table([][]string{
		{"Organization", "Status"},
		{"A", "OK"},
		{"機構", "STALE"},
	})

	assert.Equal(t, []string{
		"| Organization | Status |",
		"| ------------ | ------ |",
		"| A            | OK     |",
		"| 機構         | STALE  |",
	}, lines)
}

func TestTable_ShortColumnsAndRaggedRows(t *testing.T) {
	lines := Table([][]string{
		{"a", "b"},
		{"c"},
	})

	assert.Equal(t, []string{
		"| a   | b   |",
		"| --- | --- |",
		"| c   |     |",
	}, lines)
	assert.Nil(t, Table(nil))
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport()))

	expected := "" +
		"| Organization | Status  | Bucket | Key                 | Last modified        | Age   |\n" +
		"| ------------ | ------- | ------ | ------------------- | -------------------- | ----- |\n" +
		"| OrgA         | OK      | shared | OrgA-2024-01-09.zip | 2024-01-08T21:00:00Z | 1d 3h |\n" +
		"| OrgB         | MISSING | shared | -                   | -                    | -     |\n" +
		"| OrgC         | STALE   | c      | OrgC-2024-01-01.zip | 2024-01-01T00:00:00Z | 9d 0h |\n" +
		"\n" +
		"FAILED: 1 ok, 1 missing, 1 stale (window 6 days, cutoff 2024-01-04T00:00:00Z)\n"

	assert.Equal(t, expected, buf.String())
}

func TestText_NoOrganizations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, freshness.Evaluate(nil, nil, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 6)))

	assert.Equal(t, "PASSED: 0 ok, 0 missing, 0 stale (window 6 days, cutoff 2024-01-04T00:00:00Z)\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport()))

	var decoded struct {
		Organizations []struct {
			Artifact *struct {
				Key string `json:"key"`
			} `json:"artifact"`
			Organization string `json:"organization"`
			Status       string `json:"status"`
		} `json:"organizations"`
		Window int  `json:"window_days"`
		Passed bool `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.False(t, decoded.Passed)
	assert.Equal(t, 6, decoded.Window)
	require.Len(t, decoded.Organizations, 3)
	assert.Equal(t, "missing", decoded.Organizations[1].Status)
	assert.Nil(t, decoded.Organizations[1].Artifact)
	assert.Equal(t, "OrgC-2024-01-01.zip", decoded.Organizations[2].Artifact.Key)
}

func TestWrite_UnknownFormat(t *testing.T) {
	require.ErrorIs(t, Write(&bytes.Buffer{}, "yaml", sampleReport()), ErrUnknownFormat)
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "0d 0h", FormatAge(0))
	assert.Equal(t, "2d 5h", FormatAge(53*time.Hour+59*time.Minute))
	assert.Equal(t, "in 0d 2h", FormatAge(-2*time.Hour))
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := []freshness.ExportArtifact{
		{Organization: "OrgA", Key: "OrgA-2024-01-09.zip", Size: 42, Timestamp: time.Date(2024, 1, 9, 3, 0, 0, 500000000, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteArtifacts(&buf, FormatText, artifacts))
	assert.Equal(t, ""+
		"| Organization | Key                 | Last modified          | Size |\n"+
		"| ------------ | ------------------- | ---------------------- | ---- |\n"+
		"| OrgA         | OrgA-2024-01-09.zip | 2024-01-09T03:00:00.5Z | 42   |\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteArtifacts(&buf, FormatText, nil))
	assert.Equal(t, "no export artifacts\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteArtifacts(&buf, FormatJSON, nil))
	assert.JSONEq(t, "[]", buf.String())

	require.ErrorIs(t, WriteArtifacts(&buf, "csv", artifacts), ErrUnknownFormat)
}

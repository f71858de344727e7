package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(Options{Writer: &buf, Level: "error"})
	require.NoError(t, err)

	log.Info("hidden")
	log.Error("shown", "organization", "OrgA")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "organization=OrgA")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(Options{Writer: &buf, Format: FormatJSON})
	require.NoError(t, err)

	log.With("bucket", "exports").Info("listed", "count", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "listed", record["msg"])
	assert.Equal(t, "exports", record["bucket"])
	assert.InDelta(t, 3, record["count"], 0)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLogger_SetLevelAffectsChildren(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(Options{Writer: &buf, Level: "info"})
	require.NoError(t, err)

	child := log.With("component", "checker")
	child.Debug("before")
	log.SetLevel(slog.LevelDebug)
	child.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.True(t, child.Enabled(slog.LevelDebug))
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	log := NewLogger("nonsense")
	assert.True(t, log.Enabled(slog.LevelInfo))
	assert.False(t, log.Enabled(slog.LevelDebug))
}

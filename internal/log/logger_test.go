package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcops/diagnostics/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestJSONFormatEmitsStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("bundle built", "runId", "run-1", "files", 4)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "bundle built", record["msg"])
	assert.Equal(t, "run-1", record["runId"])
	assert.Equal(t, float64(4), record["files"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestWithErrorAttachesCode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	err := errors.New(errors.ErrCodeInputNotJSON, "not json")
	logger.WithError(err).Warn("skipping input")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DATA-002", record["error_code"])
	assert.Equal(t, "not json", record["error"])
}

func TestWithAddsAttributesToAllRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf}).
		With("component", "bundle")

	logger.Info("first")
	logger.Info("second")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Contains(t, line, "component=bundle")
	}
}

func TestDefaultLoggerFallback(t *testing.T) {
	SetDefaultLogger(nil)
	logger := DefaultLogger()
	require.NotNil(t, logger)

	// Subsequent calls return the same instance.
	assert.Same(t, logger, DefaultLogger())
}

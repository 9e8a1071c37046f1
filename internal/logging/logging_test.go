package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestRunIDStable(t *testing.T) {
	id := RunID()
	assert.Equal(t, id, RunID())
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "debug", Format: "json"})
	require.NoError(t, err)

	Component(l, "writer").Debug("wrote records", "count", 10)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "wrote records", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "writer", entry["component"])
	assert.Equal(t, RunID(), entry["run_id"])
	assert.InDelta(t, 10, entry["count"], 0)
}

func TestNewTextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Options{Level: "warn"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "path", "a.tfrecord")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "path=a.tfrecord")
	assert.Contains(t, out, "run_id="+RunID())
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "nope"})
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, Options{Format: "nope"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "warn", Output: &buf})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "team", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, float64(3), line["team"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Format: "text", Output: &buf})
	require.NoError(t, err)

	l.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewRejectsUnknown(t *testing.T) {
	_, err := New(&Config{Format: "xml"})
	assert.Error(t, err)

	_, err = New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), OrDefault(nil))

	l := Discard()
	assert.Same(t, l, OrDefault(l))
}

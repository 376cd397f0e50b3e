package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger, err := NewZapLogger(LogConfig{Level: level, Output: buf})
	require.NoError(t, err)
	return logger, buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, WarnLevel)

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestZapLogger_Fields(t *testing.T) {
	logger, buf := newBufferLogger(t, InfoLevel)

	logger.Info("event created",
		Field{"event_id", "abc-123"},
		Field{"owner", "james"},
	)

	out := buf.String()
	assert.Contains(t, out, "event created")
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "james")
}

func TestZapLogger_WithFields(t *testing.T) {
	logger, buf := newBufferLogger(t, InfoLevel)

	child := logger.WithFields(Field{"component", "suggest"})
	child.Info("request dispatched")

	assert.Contains(t, buf.String(), "suggest")
}

func TestZapLogger_ErrorIncludesErr(t *testing.T) {
	logger, buf := newBufferLogger(t, InfoLevel)

	logger.Error("backend call failed", assert.AnError)
	assert.Contains(t, buf.String(), assert.AnError.Error())
}

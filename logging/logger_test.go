package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.With("component", "test").Debug("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "key=value")
}

func TestNewSlogAdapterNilUsesDefault(t *testing.T) {
	assert.NotNil(t, NewSlogAdapter(nil).logger)
}

func TestCapturingLogger(t *testing.T) {
	logger := NewCapturingLogger()
	child := logger.With("route", "GET /users")

	logger.Info("ready")
	child.Warn("ambiguous", "count", 2)

	out := logger.Output()
	assert.Len(t, out, 2)
	assert.True(t, out.Contains("WARN", "ambiguous route=GET /users count=2"))
	assert.False(t, out.Contains("ERROR", "ambiguous"))

	var buf bytes.Buffer
	out.Dump(&buf, "  ")
	assert.Contains(t, buf.String(), "INFO ready")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))
	l := NewCapturingLogger()
	assert.Same(t, l, OrNop(l))
}

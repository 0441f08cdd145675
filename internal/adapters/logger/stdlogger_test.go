package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerWithWriter(LevelWarn, &buf)
	ctx := context.Background()

	l.Debug(ctx, "debug message")
	l.Info(ctx, "info message")
	l.Warn(ctx, "warn message")
	l.Error(ctx, errors.New("boom"), "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "[WARN] warn message")
	assert.Contains(t, out, "[ERROR] error message | error: boom")
}

func TestStdLogger_FieldsAreMergedAndSorted(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerWithWriter(LevelDebug, &buf)

	l.Info(context.Background(), "with fields",
		map[string]interface{}{"pair": "BTCUSDT"},
		map[string]interface{}{"attempt": 2})

	assert.Contains(t, buf.String(), "attempt=2 pair=BTCUSDT")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFromLevel_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewFromLevel(&buf, "warn")
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "persist failed", "key", "form-data-draft")
	log.Error(ctx, "boom")

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "key=form-data-draft")
	assert.Contains(t, out, "level=ERROR")
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewFromLevel(&buf, "debug")

	child := log.With("namespace", "corrective-action-draft")
	child.Debug(context.Background(), "draft created", "draft_id", 3)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "namespace=corrective-action-draft", "draft_id=3"} {
		assert.Contains(t, out, want)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Info(context.TODO(), "ignored")
		log.With("a", 1).Error(context.TODO(), "ignored")
	})
}

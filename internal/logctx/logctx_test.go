package logctx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom_DefaultWhenEmpty(t *testing.T) {
	assert.Same(t, slog.Default(), From(context.Background()))
}

func TestIntoFrom_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := Into(context.Background(), logger)
	From(ctx).Info("hello", "request_id", "r1")

	assert.Same(t, logger, From(ctx))
	assert.Contains(t, buf.String(), "request_id=r1")
}

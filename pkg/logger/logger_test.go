package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("kept", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "v", line["k"])
}

func TestWithCtx(t *testing.T) {
	var buf bytes.Buffer
	base := Setup(&buf, "info", "text")

	assert.Same(t, base, WithCtx(context.Background()))

	scoped := base.With("request_id", "abc")
	ctx := Inject(context.Background(), scoped)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
}

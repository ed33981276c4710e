package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), 42)
	logger.InfoContext(ctx, "vote cast", "idiom_id", 7)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "vote cast", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.EqualValues(t, 42, record["user_id"])
	assert.EqualValues(t, 7, record["idiom_id"])
}

func TestNewLogger_WithAttrsKeepsContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf).With("component", "ledger")

	logger.InfoContext(WithRequestID(context.Background(), "req-2"), "ok")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ledger", record["component"])
	assert.Equal(t, "req-2", record["request_id"])
}

func TestNewLogger_TextOutsideProduction(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("development", &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

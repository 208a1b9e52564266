package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LoggerConfig{Level: "info", Format: "json", ServiceName: "deskpulse"}, &buf)
	ctx := WithCorrelationID(context.Background(), "abc-123")

	log.Error(ctx, "fetch failed", errors.New("boom"), map[string]interface{}{"resource": "Ticket"})

	entry := decodeLine(t, &buf)
	assert.Equal(t, "fetch failed", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc-123", entry["correlation_id"])
	assert.Equal(t, "deskpulse", entry["service"])
	assert.Equal(t, "Ticket", entry["resource"])
	assert.Contains(t, entry["caller"], "structured_logger_test.go")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LoggerConfig{Level: "info", Format: "json"}, &buf)

	log.Debug(context.Background(), "hidden", nil)

	assert.Zero(t, buf.Len())
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(LoggerConfig{Level: "info", Format: "json"}, &buf)
	child := base.WithFields(map[string]interface{}{"component": "glpi"})

	base.Info(context.Background(), "base", nil)
	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "component")

	buf.Reset()
	child.Info(context.Background(), "child", nil)
	entry = decodeLine(t, &buf)
	assert.Equal(t, "glpi", entry["component"])
}

func TestLogPerformance(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(LoggerConfig{Level: "info", Format: "json"}, &buf)

	LogPerformance(context.Background(), log, "glpi.tickets", 1500*time.Millisecond, nil)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "performance", entry["event_type"])
	assert.Equal(t, float64(1500), entry["duration_ms"])
}

func TestCorrelationIDFromEmptyContext(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFrom(context.Background()))
}

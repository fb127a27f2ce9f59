package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titlelex/titlelex/internal/observability"
)

func TestLoggerEmitsJSONWithServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Level:       "info",
		Format:      "json",
		Output:      &buf,
		ServiceName: "titlelex-test",
	})

	logger.Info().Str("title", "Global Widget Market").Msg("parsed")

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	require.Equal(t, "titlelex-test", fields["service"])
	require.Equal(t, "parsed", fields["message"])
	require.Equal(t, "Global Widget Market", fields["title"])
}

func TestLoggerWithStageAddsStageField(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Level: "info", Format: "json", Output: &buf, ServiceName: "titlelex-test",
	})

	logger.WithStage("geo").Info().Msg("matched")

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	require.Equal(t, "geo", fields["stage"])
}

func TestTraceIDRoundTripsThroughContext(t *testing.T) {
	ctx := observability.ContextWithTraceID(context.Background(), "abc-123")
	require.Equal(t, "abc-123", observability.TraceIDFromContext(ctx))
	require.Empty(t, observability.TraceIDFromContext(context.Background()))
}

func TestWithContextAddsTraceIDWhenPresent(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{
		Level: "info", Format: "json", Output: &buf, ServiceName: "titlelex-test",
	})

	ctx := observability.ContextWithTraceID(context.Background(), "trace-1")
	logger.WithContext(ctx).Info().Msg("hit")

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))
	require.Equal(t, "trace-1", fields["trace_id"])
}

package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	ctx := SetCorrelationID(context.Background(), "cid-1")

	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestMaskHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &contextHandler{
		Handler: &maskHandler{
			handler: slog.NewJSONHandler(&buf, nil),
			masker:  NewMasker([]string{"Password", " otp "}),
		},
		serviceName: "glintai",
	}
	logger := slog.New(h)

	logger.InfoContext(SetCorrelationID(context.Background(), "cid-9"), "submit",
		"password", "Abcdef1!",
		"body", map[string]any{"email": "a@b.com", "otp": "123456"},
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "***", got["password"])
	assert.Equal(t, map[string]any{"email": "a@b.com", "otp": "***"}, got["body"])
	assert.Equal(t, "cid-9", got["_cID"])
	assert.Equal(t, "glintai", got["service"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestNewStdoutHandler(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newStdoutHandler(&buf, &Config{LogFormat: "TEXT", LogLevel: "warn"}))

		logger.Info("hidden")
		logger.Warn("resend rejected", "flow_id", "f-1")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "severity=WARN")
		assert.Contains(t, out, "flow_id=f-1")
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newStdoutHandler(&buf, &Config{}))

		logger.Info("flow started", "flow_id", "f-2")

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "INFO", got["severity"])
		assert.Equal(t, "flow started", got["msg"])
		assert.Contains(t, got, "ts")
		assert.Contains(t, got["file"], "internal/pkg/instrument/logging_test.go:")
	})
}

func TestMasker(t *testing.T) {
	m := NewMasker([]string{"password", "", "Code"})

	assert.False(t, m.Empty())
	assert.True(t, m.Sensitive("CODE"))
	assert.False(t, m.Sensitive("email"))
	assert.True(t, NewMasker([]string{" "}).Empty())

	got, ok := m.JSON([]byte(`{"email":"a@b.com","password":"x","items":[{"code":"123456"}]}`))
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"email":    "a@b.com",
		"password": Redacted,
		"items":    []any{map[string]any{"code": Redacted}},
	}, got)

	_, ok = m.JSON([]byte("plain"))
	assert.False(t, ok)

	attr := m.Attr(slog.String("body", `{"code":"123456"}`))
	assert.JSONEq(t, `{"code":"***"}`, attr.Value.String())

	attr = m.Attr(slog.Any("headers", map[string]string{"Code": "1", "X": "2"}))
	assert.Equal(t, map[string]any{"Code": Redacted, "X": "2"}, attr.Value.Any())
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{ServiceName: "glintai"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestProviders_ShutdownOrder(t *testing.T) {
	var order []string
	p := &providers{shutdown: []func(context.Context) error{
		func(context.Context) error { order = append(order, "trace"); return nil },
		func(context.Context) error { order = append(order, "metric"); return errors.New("flush") },
	}}

	err := p.Shutdown(context.Background())
	assert.EqualError(t, err, "flush")
	assert.Equal(t, []string{"metric", "trace"}, order)
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	return out
}

func TestWithContextExtractsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, SessionIDKey, "sess-1")
	log.WithContext(ctx).Info("hello")

	line := decodeLine(t, &buf)
	if line["request_id"] != "req-1" || line["session_id"] != "sess-1" {
		t.Fatalf("missing context attributes: %v", line)
	}
}

func TestDisclosureEvent(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).DisclosureEvent("listing:1001", "call", "revealed", "attempts", 2)

	line := decodeLine(t, &buf)
	if line["msg"] != "disclosure_event" || line["context_key"] != "listing:1001" || line["attempts"] != float64(2) {
		t.Fatalf("unexpected disclosure log: %v", line)
	}
}

func TestUpstreamError(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).UpstreamError("view_number", 1, errors.New("boom"))

	line := decodeLine(t, &buf)
	if line["level"] != "WARN" || line["error"] != "boom" {
		t.Fatalf("unexpected upstream log: %v", line)
	}
}

func TestNewSelectsHandlerByEnv(t *testing.T) {
	if New("development").Enabled(context.Background(), slog.LevelDebug) != true {
		t.Fatalf("development logger should enable debug")
	}
	if New("production").Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("production logger should not enable debug")
	}
}

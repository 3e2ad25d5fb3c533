package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "info", want: zapcore.InfoLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "verbose", want: zapcore.InfoLevel},
		{in: "", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggingBeforeInit(t *testing.T) {
	// must not panic on the no-op logger
	Info("message", "key", "value")
	Error("message", "error", "x")
	Named("component").Debugw("message")
	Sync()
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := log
	log = zap.New(core).Sugar()
	t.Cleanup(func() { log = prev })

	Named("events").Infow("Handled event", "event_id", "abc")
	Info("untagged")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if got := entries[0].LoggerName; got != "events" {
		t.Errorf("LoggerName = %q, want %q", got, "events")
	}
	if got := entries[0].ContextMap()["event_id"]; got != "abc" {
		t.Errorf("event_id = %v, want abc", got)
	}
	if got := entries[1].LoggerName; got != "" {
		t.Errorf("untagged LoggerName = %q, want empty", got)
	}
}

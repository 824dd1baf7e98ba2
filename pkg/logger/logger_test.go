package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(ctx, "page degraded", String("team", "HOME"), Int("page", 2))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "page degraded") || !strings.Contains(out, "team=HOME") || !strings.Contains(out, "page=2") {
		t.Errorf("warn line missing fields: %q", out)
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Named("report").Named("composer").Debug(context.Background(), "fallback", Error(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "logger=report.composer") {
		t.Errorf("named logger not recorded: %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("error field missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "", "warning", "error"} {
		if _, err := ParseLevel(lvl); err != nil {
			t.Errorf("ParseLevel(%q): %v", lvl, err)
		}
	}
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "discarded", Float64("v", 1.5))
	if log.Named("x") == nil {
		t.Fatal("named nop logger is nil")
	}
}

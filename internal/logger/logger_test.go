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
	InitWriter(&buf)
	ctx := context.Background()

	log := Get()
	log.Info(ctx, "hidden at warn")
	log.Warn(ctx, "shown", String("replay", "abc"), Int("players", 2))

	out := buf.String()
	if strings.Contains(out, "hidden at warn") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "replay=abc") || !strings.Contains(out, "players=2") {
		t.Errorf("warn record missing fields: %s", out)
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	buf.Reset()
	log.Debug(ctx, "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug record missing: %s", buf.String())
	}
}

func TestNamedAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	Named("parse").Error(context.Background(), "failed", Error(errors.New("boom")))
	out := buf.String()
	if !strings.Contains(out, "component=parse") || !strings.Contains(out, "error=boom") {
		t.Errorf("unexpected record: %s", out)
	}
}

func TestAnyField(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)

	Get().Warn(context.Background(), "rates", Any("timed", []int{60, 72}))
	if !strings.Contains(buf.String(), "timed=\"[60 72]\"") {
		t.Errorf("unexpected record: %s", buf.String())
	}
}

func TestSetLevelStringRejectsUnknown(t *testing.T) {
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

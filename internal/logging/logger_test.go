package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", nil); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestWarnerWritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewWarner(log).Warn("option ignored")
	out := buf.String()
	if !strings.Contains(out, "option ignored") || !strings.Contains(out, "warning") {
		t.Fatalf("output=%q", out)
	}
}

func TestWarnerSuppressedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("error", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewWarner(log).Warn("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestWarnerVisibleAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("chatter")
	NewWarner(log).Warn("legacy jest")
	out := buf.String()
	if !strings.Contains(out, "legacy jest") {
		t.Fatalf("warning missing at warn level: %q", out)
	}
	if strings.Contains(out, "chatter") {
		t.Fatalf("info leaked at warn level: %q", out)
	}
}

func TestWarnerKeepsLoggerName(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewWarner(log.WithName("jest")).Warn("ts-jest options dropped")
	if out := buf.String(); !strings.Contains(out, "jest") || !strings.Contains(out, "ts-jest options dropped") {
		t.Fatalf("output=%q", out)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Warn("a")
	r.Warn("b")
	if got := strings.Join(r.Messages(), ","); got != "a,b" {
		t.Fatalf("messages=%q", got)
	}
}

package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleReporterBlocked(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.Blocked("waiting for the cache lock")

	out := buf.String()
	if !strings.Contains(out, "Blocking") {
		t.Errorf("expected Blocking tag, got %q", out)
	}
	if !strings.Contains(out, "waiting for the cache lock") {
		t.Errorf("expected the wait message, got %q", out)
	}
}

func TestConsoleReporterNilWriter(t *testing.T) {
	r := NewConsoleReporter(nil)
	r.Blocked("dropped") // must not panic
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2)

	p.Step("first.txt")
	p.Step("second.txt")
	p.Complete("done")

	out := buf.String()
	if !strings.Contains(out, "[1/2] first.txt") {
		t.Errorf("missing first step: %q", out)
	}
	if !strings.Contains(out, "[2/2] second.txt") {
		t.Errorf("missing second step: %q", out)
	}
	if !strings.Contains(out, "done") {
		t.Errorf("missing completion message: %q", out)
	}
}

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"  Warn  ", "warn"},
		{"", "info"},
		{"verbose", "info"},
	}

	for _, tt := range tests {
		if got := normalizeLogLevel(tt.input); got != tt.expected {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "warn")

	log.Debugf("hidden %d", 1)
	log.Infof("hidden %d", 2)
	log.Warnf("shown %d", 3)
	log.Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the configured level leaked: %q", out)
	}
	if !strings.Contains(out, "WARN shown 3") || !strings.Contains(out, "ERROR shown 4") {
		t.Errorf("expected warn and error output, got %q", out)
	}
}

func TestDebugLevelShowsEverything(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "trace")

	log.Tracef("a")
	log.Debugf("b")
	log.Infof("c")

	if got := strings.Count(buf.String(), "\n"); got != 3 {
		t.Errorf("expected 3 lines, got %d: %q", got, buf.String())
	}
}

func TestTimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	log.Infof("message")

	line := buf.String()
	// [HH:MM:SS] prefix
	if len(line) < 11 || line[0] != '[' || line[9] != ']' {
		t.Errorf("expected timestamp prefix, got %q", line)
	}
}

func TestNilWriterDiscards(t *testing.T) {
	log := NewConsoleLogger(nil, "info")
	log.Infof("dropped") // must not panic
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			for j := 0; j < 20; j++ {
				log.Infof("goroutine %d message %d", i, j)
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if got := strings.Count(buf.String(), "\n"); got != 200 {
		t.Errorf("expected 200 complete lines, got %d", got)
	}
}

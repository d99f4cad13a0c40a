package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVerboseLinesCarryPrefixAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newStd(&buf, true)

	l.Warn("catalog fetch failed", map[string]interface{}{"error": "down"})
	l.Error("save failed", errors.New("disk full"), nil)

	got := buf.String()
	if !strings.HasPrefix(got, "asoforge ") {
		t.Fatalf("output missing prefix: %q", got)
	}
	if !strings.Contains(got, "[WARN] catalog fetch failed") || !strings.Contains(got, "[ERROR] save failed") {
		t.Fatalf("levels not rendered: %q", got)
	}
}

func TestQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := newStd(&buf, false)

	l.Debug("noisy", nil)
	l.Info("noisy", nil)
	l.Warn("noisy", nil)
	l.Error("noisy", errors.New("x"), nil)

	if buf.Len() != 0 {
		t.Fatalf("non-verbose logger wrote %q", buf.String())
	}
}

func TestDebugEnvEnablesVerbose(t *testing.T) {
	for _, value := range []string{"1", "true", "TRUE"} {
		t.Setenv("ASOFORGE_DEBUG", value)
		if !debugEnabled() {
			t.Fatalf("ASOFORGE_DEBUG=%q should enable verbose mode", value)
		}
	}
	t.Setenv("ASOFORGE_DEBUG", "0")
	if debugEnabled() {
		t.Fatal("ASOFORGE_DEBUG=0 should stay quiet")
	}
}

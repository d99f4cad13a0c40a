package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
)

func TestExportWritesDatedBundle(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	w.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }

	meta := domain.GeneratedMetadata{
		Title:    "Snap & Track",
		Keywords: []string{"calorie", "tracker"},
	}
	path, err := w.Export(meta, "Snap & Track")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	wantDir := filepath.Join(root, "snap-track-2026-08-28")
	if filepath.Dir(path) != wantDir {
		t.Fatalf("dir = %q, want %q", filepath.Dir(path), wantDir)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading bundle: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bundle is not valid JSON: %v", err)
	}
	if doc["configVersion"].(float64) != 0 {
		t.Fatalf("configVersion = %v, want 0", doc["configVersion"])
	}

	// Absent fields are omitted, never null.
	if strings.Contains(string(raw), "null") {
		t.Fatalf("bundle contains null: %s", raw)
	}
	if strings.Contains(string(raw), "subtitle") {
		t.Fatalf("absent subtitle must be omitted: %s", raw)
	}
}

func TestExportOverwritesSameDayBundle(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)

	if _, err := w.Export(domain.GeneratedMetadata{Title: "First"}, "App"); err != nil {
		t.Fatalf("first export: %v", err)
	}
	path, err := w.Export(domain.GeneratedMetadata{Title: "Second"}, "App")
	if err != nil {
		t.Fatalf("second export: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "Second") {
		t.Fatalf("bundle not overwritten: %s", raw)
	}
}

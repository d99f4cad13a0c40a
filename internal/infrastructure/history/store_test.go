package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
)

func record(kind, model string, at time.Time) domain.GenerationRecord {
	return domain.GenerationRecord{
		Timestamp:   at,
		Kind:        kind,
		Model:       model,
		OutputChars: 120,
		DurationMS:  850,
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	for i, kind := range []string{"title", "keywords", "score:fitness"} {
		if err := store.Save(record(kind, "gpt-4.1", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	// Newest first.
	if records[0].Kind != "score:fitness" {
		t.Fatalf("first record = %q, want newest", records[0].Kind)
	}
}

func TestSQLiteStoreSearchAndLimit(t *testing.T) {
	store := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		kind := "title"
		if i%2 == 0 {
			kind = "keywords"
		}
		if err := store.Save(record(kind, "gpt-4.1", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.Records(2, "keywords")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want limit 2", len(records))
	}
	for _, rec := range records {
		if rec.Kind != "keywords" {
			t.Fatalf("search leaked kind %q", rec.Kind)
		}
	}
}

func TestSQLiteStoreClear(t *testing.T) {
	store := NewSQLiteStoreAt(filepath.Join(t.TempDir(), "history.db"))
	if err := store.Save(record("title", "gpt-4.1", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records after clear = %d", len(records))
	}
}

func TestFileStoreFallbackBehaviors(t *testing.T) {
	store := NewFileStoreAt(filepath.Join(t.TempDir(), "history.jsonl"))
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	for i, kind := range []string{"title", "description"} {
		if err := store.Save(record(kind, "claude-sonnet-4", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 || records[0].Kind != "description" {
		t.Fatalf("records = %+v, want newest first", records)
	}

	filtered, err := store.Records(1, "title")
	if err != nil {
		t.Fatalf("filtered Records: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Kind != "title" {
		t.Fatalf("filtered = %+v", filtered)
	}
}

func TestExportJSONWritesOneLinePerRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewSQLiteStoreAt(filepath.Join(dir, "history.db"))
	for i := 0; i < 3; i++ {
		if err := store.Save(record("title", "gpt-4.1", time.Now())); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	dest := filepath.Join(dir, "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	exported := NewFileStoreAt(dest)
	records, err := exported.Records(0, "")
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("exported records = %d, want 3", len(records))
	}
}

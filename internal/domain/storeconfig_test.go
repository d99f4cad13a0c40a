package domain

import (
	"encoding/json"
	"testing"
)

func TestBuildStoreConfigOmitsAbsentFields(t *testing.T) {
	meta := GeneratedMetadata{
		Title:    "Snap & Track",
		Keywords: []string{"fitness", "tracker"},
	}
	raw, err := json.Marshal(BuildStoreConfig(meta))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["configVersion"] != float64(0) {
		t.Errorf("configVersion = %v, want 0", doc["configVersion"])
	}

	info := doc["apple"].(map[string]any)["info"].(map[string]any)[ExportLocale].(map[string]any)
	if info["title"] != "Snap & Track" {
		t.Errorf("title = %v", info["title"])
	}
	for _, absent := range []string{"subtitle", "description", "releaseNotes", "promoText"} {
		if _, present := info[absent]; present {
			t.Errorf("field %q should be omitted, not present (value %v)", absent, info[absent])
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Snap & Track", "snap-track"},
		{"  My App 2.0  ", "my-app-2-0"},
		{"***", "app"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

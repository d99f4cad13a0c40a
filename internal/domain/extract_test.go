package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractFirstOption(t *testing.T) {
	text := "1. **Snap & Track** (18 chars)\n2. **Other Option** (14 chars)"
	got, ok := ExtractFirstOption(text)
	if !ok {
		t.Fatal("expected a first option")
	}
	if got != "Snap & Track" {
		t.Fatalf("ExtractFirstOption() = %q, want %q", got, "Snap & Track")
	}
}

func TestExtractFirstOptionAbsent(t *testing.T) {
	if got, ok := ExtractFirstOption("no list here at all"); ok {
		t.Fatalf("expected absent, got %q", got)
	}
}

func TestExtractNumberedItemsOrderAndStripping(t *testing.T) {
	text := strings.Join([]string{
		"Here are the options:",
		"1. **Alpha One**",
		"2. *Beta Two* (12 chars)",
		"3. [Gamma Three]",
		"4. Delta Four",
		"5. Epsilon Five",
	}, "\n")
	got := ExtractNumberedItems(text)
	if len(got) != 5 {
		t.Fatalf("got %d items, want 5: %v", len(got), got)
	}
	if got[0] != "Alpha One" {
		t.Errorf("item 0 = %q, want emphasis stripped %q", got[0], "Alpha One")
	}
	if got[1] != "Beta Two" {
		t.Errorf("item 1 = %q, want emphasis and char count stripped %q", got[1], "Beta Two")
	}
	if got[2] != "Gamma Three" {
		t.Errorf("item 2 = %q, want brackets stripped %q", got[2], "Gamma Three")
	}
	if got[3] != "Delta Four" || got[4] != "Epsilon Five" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestParseKeywordsFromContentBacktickSpan(t *testing.T) {
	text := "Analysis of candidates...\nFinal Keyword String (42/100 chars):\n`fitness,tracker,calorie,ai`"
	want := []string{"fitness", "tracker", "calorie", "ai"}
	got := ParseKeywordsFromContent(text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeywordsFromContentLabelledLine(t *testing.T) {
	text := "some analysis\nFinal keyword string: run,walk, jog ,,swim"
	want := []string{"run", "walk", "jog", "swim"}
	got := ParseKeywordsFromContent(text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeywordsFromContentNoMatch(t *testing.T) {
	if got := ParseKeywordsFromContent("nothing useful here"); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestExtractDescriptionBelowFloorIsAbsent(t *testing.T) {
	if got, ok := ExtractDescription("# Heading\nshort"); ok {
		t.Fatalf("expected absent for 5-char body, got %q", got)
	}
}

func TestExtractDescriptionStripsHeadingsAndCounts(t *testing.T) {
	body := "This body is comfortably longer than ten characters."
	text := "# My App\n" + body + "\n(53 chars)"
	got, ok := ExtractDescription(text)
	if !ok {
		t.Fatal("expected a description body")
	}
	if got != body {
		t.Fatalf("ExtractDescription() = %q, want %q", got, body)
	}
}

func TestCleanOutputDropsPreamble(t *testing.T) {
	text := "Sure! Here is your description:\n\n# My App\nBody text here."
	got := CleanOutput(text)
	want := "# My App\nBody text here."
	if got != want {
		t.Fatalf("CleanOutput() = %q, want %q", got, want)
	}
}

func TestCleanOutputWithoutHeadingTrimsOnly(t *testing.T) {
	if got := CleanOutput("  plain answer  "); got != "plain answer" {
		t.Fatalf("CleanOutput() = %q, want %q", got, "plain answer")
	}
}

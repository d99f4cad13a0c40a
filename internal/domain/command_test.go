package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommandAliasesAreCaseInsensitive(t *testing.T) {
	for alias, want := range aliasTable {
		got := ParseCommand("  " + alias + "  ")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", alias, diff)
		}
		upper := ParseCommand(toUpper(alias))
		if diff := cmp.Diff(want, upper); diff != "" {
			t.Errorf("ParseCommand(%q) uppercase mismatch (-want +got):\n%s", alias, diff)
		}
	}
}

func toUpper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func TestParseCommandSubAliasMatchesCanonical(t *testing.T) {
	if diff := cmp.Diff(ParseCommand("/subtitle"), ParseCommand("/SUB")); diff != "" {
		t.Fatalf("/SUB and /subtitle should parse identically:\n%s", diff)
	}
}

func TestParseCommandParameterizedPayloads(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"/score fitness tracker", Command{Kind: CmdScore, Payload: "fitness tracker"}},
		{"/SCORE Fitness", Command{Kind: CmdScore, Payload: "Fitness"}},
		{"/icon", Command{Kind: CmdIcon}},
		{"/icon a red rocket", Command{Kind: CmdIcon, Payload: "a red rocket"}},
		{"/feature mountain sunrise", Command{Kind: CmdFeature, Payload: "mountain sunrise"}},
		{"/graphic neon skyline", Command{Kind: CmdFeature, Payload: "neon skyline"}},
	}
	for _, tc := range tests {
		got := ParseCommand(tc.line)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestParseCommandFreeTextBecomesChat(t *testing.T) {
	tests := []struct {
		line    string
		message string
	}{
		{"make it punchier", "make it punchier"},
		{"  make it Punchier  ", "make it Punchier"},
		{"/unknowncommand do things", "/unknowncommand do things"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		got := ParseCommand(tc.line)
		if got.Kind != CmdChat {
			t.Errorf("ParseCommand(%q).Kind = %v, want CmdChat", tc.line, got.Kind)
		}
		if got.Payload != tc.message {
			t.Errorf("ParseCommand(%q).Payload = %q, want %q", tc.line, got.Payload, tc.message)
		}
	}
}

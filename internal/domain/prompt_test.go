package domain

import (
	"strings"
	"testing"
)

func TestBuildGenerationPromptEncodesLimits(t *testing.T) {
	app := AppInfo{Name: "Snap & Track", Description: "A calorie tracker that photographs your meals."}

	tests := []struct {
		kind ContentKind
		want string
	}{
		{KindTitle, "at most 30 characters"},
		{KindSubtitle, "at most 30 characters"},
		{KindDescription, "at most 4000 characters"},
		{KindKeywords, "at most 100"},
		{KindReleaseNotes, "at most 4000 characters"},
		{KindPromoText, "at most 170 characters"},
	}
	for _, tc := range tests {
		prompt, err := BuildGenerationPrompt(tc.kind, app)
		if err != nil {
			t.Fatalf("BuildGenerationPrompt(%s): %v", tc.kind, err)
		}
		if !strings.Contains(prompt, tc.want) {
			t.Errorf("%s prompt missing limit %q", tc.kind, tc.want)
		}
		if !strings.Contains(prompt, app.Name) {
			t.Errorf("%s prompt missing app name", tc.kind)
		}
	}
}

func TestBuildGenerationPromptUnknownKind(t *testing.T) {
	if _, err := BuildGenerationPrompt(ContentKind("bogus"), AppInfo{}); err == nil {
		t.Fatal("expected error for unknown content kind")
	}
}

func TestBuildGenerationPromptCompetitorContext(t *testing.T) {
	app := AppInfo{
		Name:        "Snap & Track",
		Description: "A calorie tracker that photographs your meals.",
		Competitor: &CompetitorApp{
			Name:        "CalCount Pro",
			Description: strings.Repeat("x", 400),
			Category:    "Health & Fitness",
		},
	}
	prompt, err := BuildGenerationPrompt(KindTitle, app)
	if err != nil {
		t.Fatalf("BuildGenerationPrompt: %v", err)
	}
	if !strings.Contains(prompt, "CalCount Pro") {
		t.Error("prompt missing competitor title")
	}
	if !strings.Contains(prompt, "Health & Fitness") {
		t.Error("prompt missing competitor category")
	}
	if strings.Contains(prompt, strings.Repeat("x", 400)) {
		t.Error("competitor description should be truncated")
	}

	bare, err := BuildGenerationPrompt(KindTitle, AppInfo{Name: "Snap & Track", Description: app.Description})
	if err != nil {
		t.Fatalf("BuildGenerationPrompt: %v", err)
	}
	if strings.Contains(bare, "Competitor context") {
		t.Error("prompt without competitor should not mention competitor context")
	}
}

func TestBuildRefinementPromptEmbedsContentVerbatim(t *testing.T) {
	current := "1. **Snap & Track** (12 chars)"
	feedback := "make option one shorter"
	prompt, err := BuildRefinementPrompt(KindTitle, current, feedback, AppInfo{Name: "Snap & Track", Description: "d"})
	if err != nil {
		t.Fatalf("BuildRefinementPrompt: %v", err)
	}
	if !strings.Contains(prompt, current) {
		t.Error("refinement prompt missing current content verbatim")
	}
	if !strings.Contains(prompt, feedback) {
		t.Error("refinement prompt missing feedback verbatim")
	}
	if !strings.Contains(prompt, "same output shape") {
		t.Error("refinement prompt should request the original output shape")
	}
}

func TestBuildScorePromptDefaultsCountry(t *testing.T) {
	prompt := BuildScorePrompt("fitness", "")
	if !strings.Contains(prompt, `"fitness"`) || !strings.Contains(prompt, `"us"`) {
		t.Fatalf("unexpected score prompt: %s", prompt)
	}
}

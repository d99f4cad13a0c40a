package domain

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Prompt building is a pure mapping from (ContentKind, AppInfo) to the
// instruction text sent to the backend. Each template encodes the exact
// character limit for its field and the output shape the response extractor
// expects.

const competitorDescriptionPreview = 300

type promptData struct {
	AppName        string
	AppDescription string
	Limit          int
	MinLimit       int
	Competitor     string
	Current        string
	Feedback       string
	Shape          string
}

var generationTemplates = map[ContentKind]string{
	KindTitle: `Generate 5 App Store title options for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraint: each title must be at most {{.Limit}} characters including spaces.
Output shape: a numbered list of exactly 5 options, one per line, like:
1. **Option One** (NN chars)
Include the character count in parentheses after each option.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindSubtitle: `Generate 5 App Store subtitle options for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraint: each subtitle must be at most {{.Limit}} characters including spaces.
A subtitle complements the title and must not repeat it.
Output shape: a numbered list of exactly 5 options, one per line, with the
character count in parentheses after each option.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindDescription: `Write an App Store description for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraints: at most {{.Limit}} characters, at least {{.MinLimit}} characters.
Output shape: a markdown heading, an opening hook paragraph, a bulleted feature
list, and a closing call to action. Do not include character counts inside the
body; if you report the total length, put it on its own line.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindKeywords: `Generate an App Store keyword string for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraint: the final comma-separated string must be at most {{.Limit}}
characters including the commas. No spaces after commas, no duplicate words,
no words already present in the app name.
Output shape: first a short analysis of candidate keywords, then a line reading
"Final Keyword String (NN/{{.Limit}} chars):" followed by the final string in
backticks, for example:
` + "`fitness,tracker,calorie`" + `
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindReleaseNotes: `Write App Store release notes ("What's New") for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraint: at most {{.Limit}} characters.
Output shape: a markdown heading followed by a short friendly block describing
improvements and fixes.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindPromoText: `Generate 5 App Store promotional text options for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Hard constraint: each option must be at most {{.Limit}} characters.
Promotional text appears above the description and can be updated without a new
release, so favor timely, benefit-driven phrasing.
Output shape: a numbered list of exactly 5 options, one per line, with the
character count in parentheses after each option.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,

	KindFull: `Produce a complete App Store metadata package for the app below.
App name: {{.AppName}}
App description: {{.AppDescription}}

Produce every section below, each under its own markdown heading, respecting
the per-field hard limits:
# Title            - 5 numbered options, each at most 30 characters
# Subtitle         - 5 numbered options, each at most 30 characters
# Description      - headed prose with bullet features, at most 4000 characters
# Keywords         - analysis plus a final backtick-delimited comma-joined
                     string of at most 100 characters
# Release Notes    - headed block, at most 4000 characters
# Promotional Text - 5 numbered options, each at most 170 characters
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`,
}

const refinementTemplate = `Refine the {{.Shape}} below based on the feedback.

Current content:
{{.Current}}

Feedback:
{{.Feedback}}

App name: {{.AppName}}
App description: {{.AppDescription}}
Keep every hard constraint from the original request (character limits
included) and answer in exactly the same output shape as before.
{{- if .Competitor}}

Competitor context:
{{.Competitor}}
{{- end}}`

// BuildGenerationPrompt renders the instruction text for one content kind.
func BuildGenerationPrompt(kind ContentKind, app AppInfo) (string, error) {
	raw, ok := generationTemplates[kind]
	if !ok {
		return "", fmt.Errorf("no prompt template for content kind %q", kind)
	}
	return renderPrompt(raw, promptData{
		AppName:        app.Name,
		AppDescription: app.Description,
		Limit:          limitFor(kind),
		MinLimit:       DescriptionMin,
		Competitor:     competitorContext(app.Competitor),
	})
}

// BuildRefinementPrompt renders a follow-up instruction embedding the current
// content and the user's feedback verbatim.
func BuildRefinementPrompt(kind ContentKind, current, feedback string, app AppInfo) (string, error) {
	return renderPrompt(refinementTemplate, promptData{
		AppName:        app.Name,
		AppDescription: app.Description,
		Current:        current,
		Feedback:       feedback,
		Shape:          kind.DisplayName(),
		Competitor:     competitorContext(app.Competitor),
	})
}

// BuildScorePrompt is the fixed instruction for the keyword-scoring tool.
func BuildScorePrompt(keyword, country string) string {
	if country == "" {
		country = "us"
	}
	return fmt.Sprintf(`Use the keyword scoring tool to score the keyword %q for country %q.
Then summarize the result: traffic score (1-10), difficulty score (1-10),
difficulty index (0-100), and a short recommendation on whether the keyword is
worth targeting.`, keyword, country)
}

func limitFor(kind ContentKind) int {
	switch kind {
	case KindTitle, KindSubtitle:
		return TitleLimit
	case KindDescription:
		return DescriptionLimit
	case KindKeywords:
		return KeywordsLimit
	case KindReleaseNotes:
		return ReleaseNotesLimit
	case KindPromoText:
		return PromoTextLimit
	default:
		return 0
	}
}

func competitorContext(comp *CompetitorApp) string {
	if comp == nil {
		return ""
	}
	desc := comp.Description
	if len(desc) > competitorDescriptionPreview {
		desc = desc[:competitorDescriptionPreview] + "..."
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("Title: %s", comp.Name))
	if desc != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", desc))
	}
	if comp.Category != "" {
		lines = append(lines, fmt.Sprintf("Category: %s", comp.Category))
	}
	return strings.Join(lines, "\n")
}

func renderPrompt(raw string, data promptData) (string, error) {
	tmpl, err := template.New("prompt").Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

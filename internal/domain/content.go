// Package domain defines core business entities and value objects for asoforge.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: content kinds, parsed commands, prompt
// templates, response extraction, and the exported store configuration.
package domain

import "time"

// ContentKind enumerates the metadata categories the studio can generate.
type ContentKind string

const (
	KindTitle        ContentKind = "title"
	KindSubtitle     ContentKind = "subtitle"
	KindDescription  ContentKind = "description"
	KindKeywords     ContentKind = "keywords"
	KindReleaseNotes ContentKind = "releaseNotes"
	KindPromoText    ContentKind = "promoText"
	KindFull         ContentKind = "full"
)

// App Store character limits enforced inside the prompt templates.
const (
	TitleLimit        = 30
	SubtitleLimit     = 30
	DescriptionLimit  = 4000
	DescriptionMin    = 10
	KeywordsLimit     = 100
	ReleaseNotesLimit = 4000
	PromoTextLimit    = 170
)

// DisplayName returns a human-readable label for the content kind.
func (k ContentKind) DisplayName() string {
	switch k {
	case KindTitle:
		return "App Title"
	case KindSubtitle:
		return "Subtitle"
	case KindDescription:
		return "Description"
	case KindKeywords:
		return "Keywords"
	case KindReleaseNotes:
		return "Release Notes"
	case KindPromoText:
		return "Promotional Text"
	case KindFull:
		return "Full Metadata Package"
	default:
		return string(k)
	}
}

// GeneratedMetadata accumulates the best-known value for each store field.
// Fields are overwritten per field as new generations land (last write wins);
// the accumulator is never cleared during a session.
type GeneratedMetadata struct {
	Title               string
	Subtitle            string
	Description         string
	Keywords            []string
	ReleaseNotes        string
	PromoText           string
	IconPath            string
	FeatureGraphicPath  string
}

// Empty reports whether no exportable field has been populated yet.
func (m GeneratedMetadata) Empty() bool {
	return m.Title == "" && m.Subtitle == "" && m.Description == "" &&
		len(m.Keywords) == 0 && m.ReleaseNotes == "" && m.PromoText == ""
}

// LastContent is the most recently generated or refined raw text, tagged with
// its kind so free-text feedback knows what it refines.
type LastContent struct {
	Kind ContentKind
	Text string
}

// QuotaInfo is an opportunistic snapshot of remote usage. It may stay nil for
// an entire session if the backend never emits a usage event.
type QuotaInfo struct {
	Used        int
	Entitlement int
	Unlimited   bool
	ResetsAt    *time.Time
}

// AvailableModel describes one selectable backend model.
type AvailableModel struct {
	ID      string
	Name    string
	Premium bool
}

// FallbackModels is the hard-coded model list used when the catalog fetch
// fails, so the studio can still run in a degraded mode.
func FallbackModels() []AvailableModel {
	return []AvailableModel{
		{ID: "gpt-4.1", Name: "GPT-4.1"},
		{ID: "gpt-4o", Name: "GPT-4o"},
		{ID: "claude-sonnet-4", Name: "Claude Sonnet 4", Premium: true},
		{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Premium: true},
	}
}

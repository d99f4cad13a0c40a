package domain

import (
	"regexp"
	"strings"
)

// StoreConfig is the exported configuration document. Absent fields are
// omitted from the JSON output, never emitted as null.
type StoreConfig struct {
	ConfigVersion int         `json:"configVersion"`
	Apple         AppleConfig `json:"apple"`
}

// AppleConfig nests per-locale store metadata.
type AppleConfig struct {
	Info map[string]LocaleInfo `json:"info"`
}

// LocaleInfo holds the store fields for one locale.
type LocaleInfo struct {
	Title        string   `json:"title,omitempty"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Description  string   `json:"description,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	ReleaseNotes string   `json:"releaseNotes,omitempty"`
	PromoText    string   `json:"promoText,omitempty"`
}

// ExportLocale is the only locale the studio currently writes.
const ExportLocale = "en-US"

// BuildStoreConfig maps the accumulator onto the exported document shape.
func BuildStoreConfig(meta GeneratedMetadata) StoreConfig {
	return StoreConfig{
		ConfigVersion: 0,
		Apple: AppleConfig{
			Info: map[string]LocaleInfo{
				ExportLocale: {
					Title:        meta.Title,
					Subtitle:     meta.Subtitle,
					Description:  meta.Description,
					Keywords:     meta.Keywords,
					ReleaseNotes: meta.ReleaseNotes,
					PromoText:    meta.PromoText,
				},
			},
		},
	}
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a lowercase, hyphen-joined, filesystem-safe name for the
// export folder.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "app"
	}
	return slug
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MinDescriptionInput is the minimum length accepted for the user-supplied app
// description collected at startup.
const MinDescriptionInput = 20

// AppInfo is the user-supplied identity of the target app. Created once at
// startup and immutable afterwards, except for the competitor fields which may
// be set once via the import command.
type AppInfo struct {
	Name          string
	Description   string
	CompetitorURL string
	Competitor    *CompetitorApp
}

// CompetitorApp is the metadata fetched for a competitor listing.
type CompetitorApp struct {
	Name        string
	Description string
	Seller      string
	Category    string
	Genres      []string
	Price       float64
	Rating      float64
	Version     string
}

// ValidateAppName checks the startup app-name input.
func ValidateAppName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("app name must not be empty")
	}
	return nil
}

// ValidateAppDescription checks the startup description input.
func ValidateAppDescription(desc string) error {
	if len(strings.TrimSpace(desc)) < MinDescriptionInput {
		return fmt.Errorf("description must be at least %d characters", MinDescriptionInput)
	}
	return nil
}

var (
	appStoreURLIDRe = regexp.MustCompile(`/id(\d+)`)
	bareAppIDRe     = regexp.MustCompile(`^\d{9,10}$`)
)

// ExtractAppStoreID pulls a numeric store identifier out of a pasted App
// Store URL (digits following "/id") or accepts a bare 9-10 digit string.
func ExtractAppStoreID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if m := appStoreURLIDRe.FindStringSubmatch(trimmed); m != nil {
		return m[1], true
	}
	if bareAppIDRe.MatchString(trimmed) {
		return trimmed, true
	}
	return "", false
}

package domain

import (
	"regexp"
	"strings"
)

// Response extraction operates on raw backend text. The output format is not
// guaranteed, so every function degrades to a defined absent result when its
// pattern is missing.

var (
	firstOptionRe   = regexp.MustCompile(`(?m)^\s*1\.\s*(.+)$`)
	numberedItemRe  = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.+)$`)
	charCountTailRe = regexp.MustCompile(`(?i)\s*\(\d+(?:/\d+)?\s*char(?:acter)?s?\)\s*$`)
	charCountLineRe = regexp.MustCompile(`(?i)^[*_\s]*(?:total[:\s]+)?\(?\d+(?:/\d+)?\s*char(?:acter)?s?\)?[*_\s.]*$`)
	backtickSpanRe  = regexp.MustCompile("`([^`\n]+)`")
)

// ExtractFirstOption returns the first numbered-list entry with markdown bold
// markers and any trailing character-count annotation removed. The second
// return value is false when no numbered entry exists.
func ExtractFirstOption(text string) (string, bool) {
	match := firstOptionRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return cleanListItem(match[1]), true
}

// ExtractNumberedItems collects every numbered line in input order, regardless
// of the numeric label, with character-count annotations, surrounding emphasis
// and bracket characters stripped. An empty slice means no numbered lines were
// found.
func ExtractNumberedItems(text string) []string {
	matches := numberedItemRe.FindAllStringSubmatch(text, -1)
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		// The annotation tail must go before the emphasis trim, otherwise a
		// closing paren shields a trailing marker from being stripped.
		item := cleanListItem(m[1])
		item = strings.Trim(item, "*_[]")
		items = append(items, strings.TrimSpace(item))
	}
	return items
}

// ParseKeywordsFromContent pulls the comma-joined keyword string out of a
// keywords response. The first backtick-delimited span wins; a line labelled
// "Final Keyword String" is the fallback. No match yields an empty list.
func ParseKeywordsFromContent(text string) []string {
	if m := backtickSpanRe.FindStringSubmatch(text); m != nil {
		return splitKeywords(m[1])
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "final keyword string")
		if idx < 0 {
			continue
		}
		rest := line[idx:]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			continue
		}
		value := rest[colon+1:]
		if tick := strings.Index(value, "`"); tick >= 0 {
			value = value[:tick]
		}
		if kws := splitKeywords(value); len(kws) > 0 {
			return kws
		}
	}
	return nil
}

// ExtractDescription drops markdown heading lines and character-count
// annotation lines and returns the trimmed remainder. Bodies at or below the
// minimum description length are treated as absent, guarding against
// near-empty extraction.
func ExtractDescription(text string) (string, bool) {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed != "" && charCountLineRe.MatchString(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	body := strings.TrimSpace(strings.Join(kept, "\n"))
	if len(body) <= DescriptionMin {
		return "", false
	}
	return body, true
}

// CleanOutput discards conversational preamble the backend may emit despite
// instructions: when the text contains a markdown heading, everything before
// the first heading line is dropped.
func CleanOutput(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return strings.TrimSpace(strings.Join(lines[i:], "\n"))
		}
	}
	return strings.TrimSpace(text)
}

func cleanListItem(item string) string {
	item = strings.TrimSpace(item)
	item = charCountTailRe.ReplaceAllString(item, "")
	item = strings.ReplaceAll(item, "**", "")
	return strings.TrimSpace(item)
}

func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

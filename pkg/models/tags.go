package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxTags is the per-command tag limit.
	MaxTags = 5
	// MaxTagLen is the per-tag character limit.
	MaxTagLen = 15
)

var tagFolder = cases.Lower(language.Und)

// NormalizeTags enforces the tag rules at write time: trimmed, lower-cased,
// truncated to MaxTagLen runes, empties dropped, duplicates collapsed, and
// the whole set capped at MaxTags. Order of first appearance is preserved.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = tagFolder.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if r := []rune(t); len(r) > MaxTagLen {
			t = string(r[:MaxTagLen])
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseTags splits a comma-separated tag string and normalizes the result.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}

package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTagLength is the longest tag accepted, in characters.
const MaxTagLength = 64

// NormalizeTag trims and lowercases a single tag and checks its length.
func NormalizeTag(raw string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return "", NewValidationError("tags", "must not contain empty entries", ErrValidation)
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return "", NewValidationError(
			"tags",
			fmt.Sprintf("must be at most %d characters (got %q)", MaxTagLength, tag),
			ErrValidation,
		)
	}
	return tag, nil
}

// NormalizeTags canonicalizes a raw tag list into a set. Entries are trimmed
// and lowercased, duplicates are dropped keeping the first occurrence, and
// the whole list is rejected if any entry is empty or too long.
// Normalizing an already-normalized set returns it unchanged.
func NormalizeTags(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		tag, err := NormalizeTag(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

// NormalizeTitle trims a title and rejects it when nothing is left.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewValidationError("title", "must not be empty", ErrValidation)
	}
	return title, nil
}

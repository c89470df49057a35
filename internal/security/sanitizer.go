package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

const maxFreeTextLength = 1000

// SanitizeText strips HTML, null bytes and surrounding whitespace from
// user-supplied free text (invite messages, saved-user notes, bios) and caps
// its length.
func SanitizeText(input string) string {
	input = htmlPolicy.Sanitize(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)

	if len(input) > maxFreeTextLength {
		input = input[:maxFreeTextLength]
	}

	return input
}

// SanitizeInterest normalizes a single interest tag.
func SanitizeInterest(input string) string {
	return strings.ToLower(strings.TrimSpace(htmlPolicy.Sanitize(input)))
}

// SanitizeInterests normalizes a tag list, dropping empties and duplicates
// while preserving order.
func SanitizeInterests(input []string) []string {
	seen := make(map[string]bool, len(input))
	out := make([]string, 0, len(input))
	for _, raw := range input {
		tag := SanitizeInterest(raw)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

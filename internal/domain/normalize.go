package domain

import (
	"strings"
)

// CleanText prepares free-form input for storage and comparison:
//   - trims leading/trailing whitespace
//   - compresses runs of spaces and tabs into a single space
//
// Case is preserved; accessory merging compares the cleaned values exactly.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

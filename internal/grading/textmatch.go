package grading

import (
	"strings"
	"unicode"
)

// normalize casefolds and collapses runs of whitespace so the offline
// fill-in comparison tolerates spacing and capitalisation, nothing more.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

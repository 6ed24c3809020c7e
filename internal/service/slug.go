package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugTitle = 80

// Slug derives a URL slug from an episode title. The external id is appended so two
// episodes with the same title never share a slug.
func Slug(title, externalID string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	n := 0
	dash := false
	for _, r := range strings.ToLower(folded) {
		if n >= maxSlugTitle {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
				n++
			}
			b.WriteRune(r)
			n++
			dash = false
			continue
		}
		dash = true
	}

	base := strings.Trim(b.String(), "-")
	if base == "" {
		return externalID
	}
	return base + "-" + externalID
}

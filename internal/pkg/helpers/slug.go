package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, strips accents and joins words with hyphens
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

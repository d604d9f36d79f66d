package domain

import (
	"strings"
	"unicode"
)

// FallbackFilename replaces names that sanitize to nothing.
const FallbackFilename = "report.csv"

// SecureFilename reduces name to a safe single path component made of
// ASCII letters, digits, '_', '.' and '-'.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)

	var b strings.Builder
	for _, field := range strings.Fields(name) {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		for _, r := range field {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-') {
				b.WriteRune(r)
			}
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return FallbackFilename
	}
	return cleaned
}

package openapi

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// splitWords breaks s at separators, at lower-to-upper transitions ("getUser"), and before the
// last capital of an acronym that is followed by a lowercase letter ("HTTPServer").
func splitWords(s string) []string {
	runes := []rune(s)
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// UpperCamel converts an operation id, path, or status code into an UpperCamelCase name.
func UpperCamel(s string) string {
	caser := cases.Title(language.Und)
	var sb strings.Builder
	for _, w := range splitWords(s) {
		sb.WriteString(caser.String(w))
	}
	return sb.String()
}

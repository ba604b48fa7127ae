package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Punctuation is the removal set applied after lowercasing. Digits, hyphens,
// parentheses, periods and apostrophes are stripped, so possessives and
// contractions collapse into single words ("patient's" -> "patients").
const Punctuation = "!\"#$&'()*+-:;<=>?@[\\]^_`{|}~1234567890."

// MissingText is the placeholder a NULL source value becomes before any
// processing. It is ordinary text from then on.
const MissingText = "None"

// Preprocess lowercases text and drops every rune in Punctuation.
func Preprocess(text string) string {
	return preprocess(text, Punctuation)
}

func preprocess(text, removal string) string {
	// Casers carry state, so each call gets its own.
	lowered := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(removal, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package normalize

import (
	"unicode"

	"github.com/cognicore/labelprep/pkg/labelprep/stoplist"
)

type runeClass int

const (
	classSpace runeClass = iota
	classWord
	classPunct
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_':
		return classWord
	case unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f):
		return classSpace
	default:
		return classPunct
	}
}

// Tokenize splits text into maximal runs of word runes (letters, digits,
// underscore) and maximal runs of other non-space runes, so punctuation and
// contractions come apart from adjacent words:
//
//	"don't stop." -> ["don", "'", "t", "stop", "."]
func Tokenize(text string) []string {
	var tokens []string
	start := -1
	current := classSpace

	for i, r := range text {
		class := classify(r)
		if class == current && start >= 0 {
			continue
		}
		if start >= 0 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
		current = class
		if class != classSpace {
			start = i
		}
	}

	// Don't forget the last token
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}

	return tokens
}

// Filter returns the tokens not present in stops, keeping order and
// duplicates. The input slice is left untouched.
func Filter(tokens []string, stops *stoplist.Set) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stops.IsStop(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

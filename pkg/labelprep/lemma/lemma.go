package lemma

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed nouns.yaml
	exceptionsYAML []byte

	//go:embed dictionary.yaml
	dictionaryYAML []byte
)

// Tables holds the morphology data the lemmatizer consults.
type Tables struct {
	// Exceptions maps irregular plurals to their base form.
	Exceptions map[string]string `yaml:"exceptions"`
	// Nouns lists known base forms. A suffix rule only applies when its
	// result is one of them.
	Nouns []string `yaml:"nouns"`
}

// DefaultTables returns the embedded English exception table and noun
// dictionary.
func DefaultTables() (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(exceptionsYAML, &t); err != nil {
		return Tables{}, fmt.Errorf("parse exceptions: %w", err)
	}
	nouns, err := parseNouns(dictionaryYAML)
	if err != nil {
		return Tables{}, fmt.Errorf("parse dictionary: %w", err)
	}
	t.Nouns = nouns
	return t, nil
}

// LoadNouns reads additional dictionary entries from a YAML file of the
// form:
//
//	nouns:
//	  - pruritus
//	  - xerostomia
func LoadNouns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseNouns(data)
}

func parseNouns(data []byte) ([]string, error) {
	var doc struct {
		Nouns []string `yaml:"nouns"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Nouns, nil
}

// Lemmatizer maps a token to its noun base form the way WordNet's morphy
// does for nouns: irregular plurals come from the exception table, regular
// ones from detaching a suffix, and a candidate counts only when the
// dictionary knows it. Every token is treated as a noun, so "running" stays
// "running" while "headaches" becomes "headache".
type Lemmatizer struct {
	exceptions map[string]string
	nouns      map[string]struct{}
	lexicon    *Lexicon // Optional: curated overrides, checked first
}

// New builds a lemmatizer from the given tables.
func New(t Tables) *Lemmatizer {
	l := &Lemmatizer{
		exceptions: make(map[string]string, len(t.Exceptions)),
		nouns:      make(map[string]struct{}, len(t.Nouns)),
	}
	for plural, base := range t.Exceptions {
		l.exceptions[strings.ToLower(plural)] = strings.ToLower(base)
	}
	l.AddNouns(t.Nouns...)
	return l
}

// Default builds a lemmatizer from the embedded tables.
func Default() (*Lemmatizer, error) {
	t, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// AddNouns extends the dictionary. Blank entries are skipped.
func (l *Lemmatizer) AddNouns(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			l.nouns[w] = struct{}{}
		}
	}
}

// SetLexicon assigns curated overrides. Overrides win over every rule.
func (l *Lemmatizer) SetLexicon(lex *Lexicon) {
	l.lexicon = lex
}

// Lemma returns the base form of a lowercase token. Among the token itself
// and every suffix-rule candidate, the shortest one found in the dictionary
// wins; when none is known the token is returned unchanged. Tokens
// containing anything other than letters are returned unchanged.
func (l *Lemmatizer) Lemma(word string) string {
	if word == "" {
		return word
	}
	if l.lexicon != nil {
		if canonical, ok := l.lexicon.lookup(word); ok {
			return canonical
		}
	}
	if !isAlpha(word) {
		return word
	}
	if base, ok := l.exceptions[word]; ok {
		return base
	}

	best, found := "", false
	if l.isNoun(word) {
		best, found = word, true
	}
	for _, d := range detachments {
		if !strings.HasSuffix(word, d.suffix) {
			continue
		}
		candidate := strings.TrimSuffix(word, d.suffix) + d.ending
		if !l.isNoun(candidate) {
			continue
		}
		if !found || len(candidate) < len(best) {
			best, found = candidate, true
		}
	}
	if !found {
		return word
	}
	return best
}

// LemmatizeAll maps Lemma over tokens, returning a new slice.
func (l *Lemmatizer) LemmatizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = l.Lemma(tok)
	}
	return out
}

func (l *Lemmatizer) isNoun(word string) bool {
	_, ok := l.nouns[word]
	return ok
}

// detachment replaces a plural suffix with a singular ending.
type detachment struct {
	suffix string
	ending string
}

// detachments is WordNet's noun substitution table, in its order.
var detachments = []detachment{
	{"s", ""},
	{"ses", "s"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

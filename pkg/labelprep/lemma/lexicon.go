package lemma

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon stores curated lemma overrides for corpus vocabulary the noun rules
// get wrong or should fold together:
//   - Brand or abbreviation variants (tabs -> tablet)
//   - Latin plurals missing from the built-in tables
//   - Words that must never be touched (map a word to itself)
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	groups map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadLexicon loads lemma overrides from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - canonical: tablet
//	    variants: [tabs, tablets]
//	  - canonical: regimen
//	    variants: []
//
// Entries are lowercased. A canonical with no variants pins that word.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"lemmas"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := NewLexicon()
	for _, entry := range config.Lemmas {
		if strings.TrimSpace(entry.Canonical) == "" {
			continue
		}
		lex.AddGroup(entry.Canonical, entry.Variants)
	}
	return lex, nil
}

// AddGroup adds a canonical form and its variants. If the group already
// exists, old reverse index entries are cleaned up first.
func (l *Lexicon) AddGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))

	if oldVariants, exists := l.groups[canonical]; exists {
		for _, oldV := range oldVariants {
			delete(l.reverseIndex, oldV)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)

	normalized = append(normalized, canonical)
	seen[canonical] = true

	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.groups[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Variants returns all known forms of a token including the canonical one.
// Unknown tokens return a slice containing only the token.
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(token)
	if canonical, ok := l.reverseIndex[token]; ok {
		return l.groups[canonical]
	}
	return []string{token}
}

// Len returns the number of canonical groups.
func (l *Lexicon) Len() int {
	return len(l.groups)
}

func (l *Lexicon) lookup(token string) (string, bool) {
	canonical, ok := l.reverseIndex[token]
	return canonical, ok
}

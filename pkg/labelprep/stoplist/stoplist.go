package stoplist

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Set is an immutable stopword set. Build it once at start-up and share it;
// nothing mutates it after construction.
type Set struct {
	stops map[string]struct{}
}

// file mirrors the on-disk stoplist layout:
//
//	terms:
//	  - the
//	  - indicated
type file struct {
	Terms []string `yaml:"terms"`
}

// New creates a set from the given terms. Terms are lowercased and trimmed;
// blanks are ignored.
func New(terms ...[]string) *Set {
	size := 0
	for _, group := range terms {
		size += len(group)
	}
	stops := make(map[string]struct{}, size)
	for _, group := range terms {
		for _, t := range group {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			stops[t] = struct{}{}
		}
	}
	return &Set{stops: stops}
}

// DefaultTerms returns the built-in list: English function words plus the
// label boilerplate curated for openFDA indication text.
func DefaultTerms() ([]string, error) {
	return parse(defaultYAML)
}

// Default builds a set holding only the built-in terms.
func Default() (*Set, error) {
	terms, err := DefaultTerms()
	if err != nil {
		return nil, err
	}
	return New(terms), nil
}

// LoadTerms reads additional terms from a YAML file.
func LoadTerms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	terms, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
	}
	return terms, nil
}

func parse(data []byte) ([]string, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Terms, nil
}

// IsStop reports whether token is a stopword. The lookup is exact; callers
// lowercase before asking.
func (s *Set) IsStop(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.stops[token]
	return ok
}

// Len returns the number of distinct terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stops)
}

// All returns every term in sorted order.
func (s *Set) All() []string {
	if s == nil {
		return nil
	}
	result := make([]string, 0, len(s.stops))
	for t := range s.stops {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

package stoplist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultContainsFunctionAndDomainTerms(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	for _, w := range []string{"the", "and", "to", "used", "treat", "prevent", "don't", "patients", "made"} {
		if !set.IsStop(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}

	for _, w := range []string{"headache", "severe", "hypertension", "pain"} {
		if set.IsStop(w) {
			t.Errorf("%q should not be a stopword", w)
		}
	}
}

func TestDefaultDeduplicates(t *testing.T) {
	terms, err := DefaultTerms()
	if err != nil {
		t.Fatalf("DefaultTerms() error: %v", err)
	}
	set := New(terms)

	if set.Len() > len(terms) {
		t.Fatalf("set larger than its input: %d > %d", set.Len(), len(terms))
	}
	if set.Len() < 240 || set.Len() > 270 {
		t.Errorf("unexpected built-in size %d", set.Len())
	}
}

func TestNewNormalizesTerms(t *testing.T) {
	set := New([]string{"  The ", "", "AND"}, []string{"tablet"})

	if !set.IsStop("the") || !set.IsStop("and") || !set.IsStop("tablet") {
		t.Errorf("terms should be lowercased and trimmed, got %v", set.All())
	}
	if set.Len() != 3 {
		t.Errorf("blank term should be ignored, got %d terms", set.Len())
	}
	// Lookups are exact.
	if set.IsStop("The") {
		t.Error("IsStop should not fold case")
	}
}

func TestAllSorted(t *testing.T) {
	set := New([]string{"zeta", "alpha", "mu"})
	got := set.All()
	want := []string{"alpha", "mu", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All() = %v, want %v", got, want)
		}
	}
}

func TestNilSet(t *testing.T) {
	var set *Set
	if set.IsStop("the") {
		t.Error("nil set should hold nothing")
	}
	if set.Len() != 0 || set.All() != nil {
		t.Error("nil set should be empty")
	}
}

func TestLoadTerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	content := "terms:\n  - capsule\n  - Injection\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	terms, err := LoadTerms(path)
	if err != nil {
		t.Fatalf("LoadTerms() error: %v", err)
	}
	set := New(terms)
	if !set.IsStop("capsule") || !set.IsStop("injection") {
		t.Errorf("loaded terms missing: %v", set.All())
	}
}

func TestLoadTermsErrors(t *testing.T) {
	if _, err := LoadTerms("/nonexistent/stoplist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("terms: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTerms(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

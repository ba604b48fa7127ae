package config

import (
	"fmt"

	"github.com/cognicore/labelprep/pkg/labelprep/lemma"
	"github.com/cognicore/labelprep/pkg/labelprep/normalize"
	"github.com/cognicore/labelprep/pkg/labelprep/stoplist"
)

// Components holds the text-processing pieces built from configuration.
// They are built once and shared read-only for the whole run.
type Components struct {
	Stoplist   *stoplist.Set
	Lemmatizer *lemma.Lemmatizer
	Pipeline   *normalize.Pipeline
}

// Build loads the stoplist and lexicon files named in n and wires the
// normalization pipeline.
func (n Normalize) Build() (*Components, error) {
	comp := &Components{}

	// Stoplist: built-in terms plus any extras
	terms, err := stoplist.DefaultTerms()
	if err != nil {
		return nil, fmt.Errorf("load built-in stoplist: %w", err)
	}
	var extra []string
	if n.ExtraStoplist != "" {
		extra, err = stoplist.LoadTerms(n.ExtraStoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
	}
	comp.Stoplist = stoplist.New(terms, extra)

	// Lemmatizer: built-in dictionary plus extras, then curated overrides
	comp.Lemmatizer, err = lemma.Default()
	if err != nil {
		return nil, fmt.Errorf("load noun tables: %w", err)
	}
	if n.ExtraNouns != "" {
		nouns, err := lemma.LoadNouns(n.ExtraNouns)
		if err != nil {
			return nil, fmt.Errorf("load nouns: %w", err)
		}
		comp.Lemmatizer.AddNouns(nouns...)
	}
	if n.Lexicon != "" {
		lex, err := lemma.LoadLexicon(n.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lemmatizer.SetLexicon(lex)
	}

	comp.Pipeline = normalize.NewPipeline(comp.Stoplist, comp.Lemmatizer, n.Options())
	return comp, nil
}

// Options converts the section into pipeline options.
func (n Normalize) Options() normalize.Options {
	return normalize.Options{
		KeepStopwords:  n.KeepStopwords,
		BlankNone:      n.BlankNone,
		StripMarkup:    n.StripMarkup,
		KeepApostrophe: n.KeepApostrophe,
	}
}

package normalize

import (
	"database/sql"
	"strings"

	"github.com/cognicore/labelprep/pkg/labelprep/lemma"
	"github.com/cognicore/labelprep/pkg/labelprep/markup"
	"github.com/cognicore/labelprep/pkg/labelprep/stoplist"
)

// Options tunes the pipeline. The zero value is the strict pipeline with the
// "none" sentinel passed through; DefaultOptions is what the CLI runs.
type Options struct {
	// KeepStopwords skips the filter stage, reproducing exports made before
	// the filter result was used.
	KeepStopwords bool
	// BlankNone replaces an output of exactly "none" with "".
	BlankNone bool
	// StripMarkup extracts text from HTML fragments before pre-processing.
	StripMarkup bool
	// KeepApostrophe drops the apostrophe from the removal set. The tokenizer
	// then splits "don't" into "don", "'", "t".
	KeepApostrophe bool
}

// DefaultOptions returns the options used for production exports.
func DefaultOptions() Options {
	return Options{BlankNone: true}
}

// Pipeline orchestrates the normalization flow:
// text → pre-process → tokenize → stopword filter → lemmatize → detokenize
type Pipeline struct {
	stops      *stoplist.Set
	lemmatizer *lemma.Lemmatizer
	opts       Options
	removal    string
}

// NewPipeline creates a pipeline with the given components. Neither
// component is modified afterwards, so one pipeline serves a whole run.
func NewPipeline(stops *stoplist.Set, lemmatizer *lemma.Lemmatizer, opts Options) *Pipeline {
	removal := Punctuation
	if opts.KeepApostrophe {
		removal = strings.ReplaceAll(removal, "'", "")
	}
	return &Pipeline{
		stops:      stops,
		lemmatizer: lemmatizer,
		opts:       opts,
		removal:    removal,
	}
}

// Trace records every intermediate stage for one input.
type Trace struct {
	Raw          string
	Preprocessed string
	Tokens       []string
	Filtered     []string
	Lemmas       []string
	Text         string
}

// Run pushes raw text through every stage and returns the intermediates.
func (p *Pipeline) Run(raw string) Trace {
	tr := Trace{Raw: raw}

	text := raw
	if p.opts.StripMarkup {
		text = markup.Strip(text)
	}

	// 1. Lowercase and strip punctuation
	tr.Preprocessed = preprocess(text, p.removal)

	// 2. Word/punctuation tokens, stopwords dropped
	tr.Tokens = Tokenize(tr.Preprocessed)
	if p.opts.KeepStopwords {
		tr.Filtered = tr.Tokens
	} else {
		tr.Filtered = Filter(tr.Tokens, p.stops)
	}

	// 3. Noun lemmas, reassembled
	tr.Lemmas = p.lemmatizer.LemmatizeAll(tr.Filtered)
	tr.Text = Detokenize(tr.Lemmas)

	if p.opts.BlankNone && tr.Text == "none" {
		tr.Text = ""
	}
	return tr
}

// Normalize returns the normalized form of raw.
func (p *Pipeline) Normalize(raw string) string {
	return p.Run(raw).Text
}

// NormalizeNull normalizes a nullable column value; NULL becomes MissingText
// and is processed like any other text.
func (p *Pipeline) NormalizeNull(v sql.NullString) string {
	return p.Normalize(Coerce(v))
}

// Coerce renders a nullable value as text.
func Coerce(v sql.NullString) string {
	if !v.Valid {
		return MissingText
	}
	return v.String
}

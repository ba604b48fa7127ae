package source

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
)

// maxLineSize bounds a single JSONL line; label sections can run long.
const maxLineSize = 16 << 20

// JSONLItem is the on-disk shape of one record:
//
//	{"id": "0a1b…", "text": "Indicated for …"}
//	{"id": 42, "text": null}
type JSONLItem struct {
	ID   json.RawMessage `json:"id"`
	Text *string         `json:"text"`
}

// JSONLSource streams records from a JSONL file, one object per line. Blank
// lines are skipped; a malformed line ends the run with an error naming it.
type JSONLSource struct {
	path    string
	file    io.Closer
	scanner *bufio.Scanner
	line    int
	closed  bool
}

// OpenJSONL opens path for streaming.
func OpenJSONL(path string) (*JSONLSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", internalerr.ErrSourceUnavailable, path, err)
	}
	return newJSONL(path, f, f), nil
}

// NewJSONL streams records from r. Close closes r when it is an io.Closer.
func NewJSONL(r io.Reader) *JSONLSource {
	c, _ := r.(io.Closer)
	return newJSONL("<reader>", r, c)
}

func newJSONL(path string, r io.Reader, c io.Closer) *JSONLSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONLSource{path: path, file: c, scanner: scanner}
}

// Next returns the next record or io.EOF.
func (s *JSONLSource) Next(ctx context.Context) (Record, error) {
	if s.closed {
		return Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	for s.scanner.Scan() {
		s.line++
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var item JSONLItem
		if err := json.Unmarshal(line, &item); err != nil {
			return Record{}, fmt.Errorf("%w: %s line %d: %v", internalerr.ErrInvalidInput, s.path, s.line, err)
		}
		return item.record()
	}
	if err := s.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Record{}, io.EOF
}

// Close closes the underlying file.
func (s *JSONLSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func (it JSONLItem) record() (Record, error) {
	rec := Record{}
	if it.Text != nil {
		rec.Text = sql.NullString{String: *it.Text, Valid: true}
	}

	raw := bytes.TrimSpace(it.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return Record{}, fmt.Errorf("%w: id: %v", internalerr.ErrInvalidInput, err)
		}
		rec.ID = id
	default:
		rec.ID = string(raw)
	}
	return rec, nil
}

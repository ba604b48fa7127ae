package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Record is one row pulled from a source: an opaque identifier and the
// free-text field, which may be NULL.
type Record struct {
	ID   string
	Text sql.NullString
}

// Source yields records one at a time. Next returns io.EOF once the source
// is exhausted. Close releases everything the source holds and may be
// called more than once.
type Source interface {
	Next(ctx context.Context) (Record, error)
	Close() error
}

// idString renders a scanned identifier the way it should appear in the
// output: text as-is, NULL as empty, anything else in its default format.
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case []byte:
		return string(id)
	default:
		return fmt.Sprint(id)
	}
}

// trimStatement drops trailing semicolons and whitespace so the query can be
// embedded in another statement.
func trimStatement(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")
}

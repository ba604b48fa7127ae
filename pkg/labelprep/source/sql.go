package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
)

// Supported database/sql drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens a database handle and verifies it answers. The caller owns
// the handle and closes it after every source built on it is closed.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", internalerr.ErrInvalidConfig, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", internalerr.ErrSourceUnavailable, driver, err)
	}
	// One sequential reader needs one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", internalerr.ErrSourceUnavailable, driver, err)
	}
	return db, nil
}

// QuerySource streams the result of a two-column query (identifier, text)
// through database/sql.
type QuerySource struct {
	rows   *sql.Rows
	closed bool
}

// NewQuery runs query against db.
func NewQuery(ctx context.Context, db *sql.DB, query string) (*QuerySource, error) {
	rows, err := db.QueryContext(ctx, trimStatement(query))
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", internalerr.ErrSourceUnavailable, err)
	}
	return &QuerySource{rows: rows}, nil
}

// Next returns the next record or io.EOF.
func (s *QuerySource) Next(ctx context.Context) (Record, error) {
	if s.closed {
		return Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return Record{}, fmt.Errorf("read rows: %w", err)
		}
		return Record{}, io.EOF
	}
	return scanRecord(s.rows)
}

// Close releases the result set.
func (s *QuerySource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rows.Close()
}

// Rows is the part of a result set the sources read from. *sql.Rows
// satisfies it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

func scanRecord(rows Rows) (Record, error) {
	var (
		id   any
		text sql.NullString
	)
	if err := rows.Scan(&id, &text); err != nil {
		return Record{}, fmt.Errorf("scan row: %w", err)
	}
	return Record{ID: idString(id), Text: text}, nil
}

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/lib/pq"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
)

// DefaultFetchSize is the number of rows pulled per FETCH.
const DefaultFetchSize = 2000

// CursorTx is the transaction a cursor lives in.
type CursorTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRows(ctx context.Context, query string) (Rows, error)
	Rollback() error
}

// sqlTx adapts *sql.Tx to CursorTx.
type sqlTx struct {
	*sql.Tx
}

func (t sqlTx) QueryRows(ctx context.Context, query string) (Rows, error) {
	rows, err := t.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CursorSource reads a query through a PostgreSQL server-side cursor so the
// client holds at most one batch of rows regardless of table size.
type CursorSource struct {
	tx        CursorTx
	name      string
	fetchSize int

	rows    Rows
	inBatch int
	done    bool
	closed  bool
}

// NewCursor declares a named cursor for query inside a read-only
// transaction on db. The transaction lives until Close.
func NewCursor(ctx context.Context, db *sql.DB, name, query string, fetchSize int) (*CursorSource, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", internalerr.ErrSourceUnavailable, err)
	}
	return OpenCursor(ctx, sqlTx{tx}, name, query, fetchSize)
}

// OpenCursor declares a named cursor for query inside tx. On failure the
// transaction is rolled back.
func OpenCursor(ctx context.Context, tx CursorTx, name, query string, fetchSize int) (*CursorSource, error) {
	if fetchSize <= 0 {
		fetchSize = DefaultFetchSize
	}
	if name == "" {
		name = "server_side"
	}

	if _, err := tx.ExecContext(ctx, declareStatement(name, query)); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%w: declare cursor: %v", internalerr.ErrSourceUnavailable, err)
	}
	return &CursorSource{tx: tx, name: name, fetchSize: fetchSize}, nil
}

// Next returns the next record, fetching a new batch when the current one is
// used up, or io.EOF.
func (c *CursorSource) Next(ctx context.Context) (Record, error) {
	if c.closed || c.done {
		return Record{}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	for {
		if c.rows == nil {
			rows, err := c.tx.QueryRows(ctx, fetchStatement(c.name, c.fetchSize))
			if err != nil {
				return Record{}, fmt.Errorf("fetch: %w", err)
			}
			c.rows = rows
			c.inBatch = 0
		}

		if c.rows.Next() {
			c.inBatch++
			return scanRecord(c.rows)
		}

		err := c.rows.Err()
		closeErr := c.rows.Close()
		c.rows = nil
		if err = errors.Join(err, closeErr); err != nil {
			return Record{}, fmt.Errorf("read batch: %w", err)
		}

		// A short batch means the cursor is drained.
		if c.inBatch < c.fetchSize {
			c.done = true
			return Record{}, io.EOF
		}
	}
}

// Close closes the cursor and ends the transaction. A transaction already
// ended by context cancellation is not an error.
func (c *CursorSource) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.rows != nil {
		errs = append(errs, c.rows.Close())
		c.rows = nil
	}
	if _, err := c.tx.ExecContext(context.Background(), closeStatement(c.name)); err != nil && !errors.Is(err, sql.ErrTxDone) {
		errs = append(errs, fmt.Errorf("close cursor: %w", err))
	}
	// Nothing was written; rolling back just ends the transaction.
	if err := c.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		errs = append(errs, fmt.Errorf("end transaction: %w", err))
	}
	return errors.Join(errs...)
}

func declareStatement(name, query string) string {
	return "DECLARE " + pq.QuoteIdentifier(name) + " NO SCROLL CURSOR FOR " + trimStatement(query)
}

func fetchStatement(name string, n int) string {
	return fmt.Sprintf("FETCH FORWARD %d FROM %s", n, pq.QuoteIdentifier(name))
}

func closeStatement(name string) string {
	return "CLOSE " + pq.QuoteIdentifier(name)
}

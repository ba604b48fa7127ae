package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/baditaflorin/l"
	"github.com/gofrs/flock"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
)

// DefaultBatchSize keeps each file under the spreadsheet import limit.
const DefaultBatchSize = 80000

// LockName is the lock file created inside the output directory.
const LockName = ".labelprep.lock"

// DefaultHeader is written once, at the top of the first file.
var DefaultHeader = []string{"id", "product_label_id", "indication"}

// Row is one output line.
type Row struct {
	ID       int64
	SourceID string
	Words    []string
}

// FileStat describes a file written during the run.
type FileStat struct {
	Path string
	Rows int64
}

// Options configures a BatchWriter.
type Options struct {
	Dir       string
	Prefix    string
	BatchSize int64
	Header    []string
	Logger    l.Logger // Optional
}

// BatchWriter appends rows to numbered CSV files (<prefix>_1.csv, …),
// starting a new file whenever a row id is a multiple of BatchSize. Only the
// first file gets a header, since later files are appended to the same
// sheet on import.
type BatchWriter struct {
	opts    Options
	lock    *flock.Flock
	file    *os.File
	csv     *csv.Writer
	fileNum int
	lastID  int64
	files   []FileStat
	closed  bool
}

// Open prepares the output directory and takes its lock. Files are created
// lazily by Write, so a run with no rows leaves no files behind.
func Open(opts Options) (*BatchWriter, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		opts.Dir = "."
	}
	if opts.Prefix == "" {
		opts.Prefix = "output"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Header == nil {
		opts.Header = DefaultHeader
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", opts.Dir, err)
	}

	lockPath := filepath.Join(opts.Dir, LockName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held by another run", internalerr.ErrOutputLocked, lockPath)
	}

	return &BatchWriter{opts: opts, lock: lock}, nil
}

// Write appends a row, opening or rotating files as needed. Row ids must be
// strictly increasing.
func (w *BatchWriter) Write(row Row) error {
	if w.closed {
		return fmt.Errorf("%w: write after close", internalerr.ErrInvalidInput)
	}
	if row.ID <= w.lastID {
		return fmt.Errorf("%w: row id %d after %d", internalerr.ErrInvalidInput, row.ID, w.lastID)
	}

	switch {
	case w.file == nil:
		if err := w.openNext(); err != nil {
			return err
		}
	case row.ID%w.opts.BatchSize == 0:
		if err := w.closeFile(); err != nil {
			return err
		}
		if err := w.openNext(); err != nil {
			return err
		}
	}

	record := []string{strconv.FormatInt(row.ID, 10), row.SourceID, FormatList(row.Words)}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write row %d: %w", row.ID, err)
	}
	w.lastID = row.ID
	w.files[len(w.files)-1].Rows++
	return nil
}

// Files returns the files written so far, in order.
func (w *BatchWriter) Files() []FileStat {
	out := make([]FileStat, len(w.files))
	copy(out, w.files)
	return out
}

// Close flushes the current file and releases the directory lock. It is
// safe to call more than once.
func (w *BatchWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.closeFile()
	if unlockErr := w.lock.Unlock(); unlockErr != nil && err == nil {
		err = fmt.Errorf("release lock: %w", unlockErr)
	}
	return err
}

func (w *BatchWriter) openNext() error {
	w.fileNum++
	name := fmt.Sprintf("%s_%d.csv", w.opts.Prefix, w.fileNum)
	path := filepath.Join(w.opts.Dir, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w.file = file
	w.csv = csv.NewWriter(file)
	w.csv.UseCRLF = true
	w.files = append(w.files, FileStat{Path: path})

	if w.opts.Logger != nil {
		w.opts.Logger.Info("Now writing to file", "file", name)
	}

	if w.fileNum == 1 && len(w.opts.Header) > 0 {
		if err := w.csv.Write(w.opts.Header); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
	}
	return nil
}

func (w *BatchWriter) closeFile() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	w.file = nil
	w.csv = nil

	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output: %w", closeErr)
	}
	return nil
}

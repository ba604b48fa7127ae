package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/l"
	"github.com/mattn/go-isatty"
)

// Options controls where and how logs are written.
type Options struct {
	// File, when set, receives the log instead of stderr.
	File string
	// JSON forces JSON output. When false, JSON is still used if the output
	// is not a terminal.
	JSON bool
}

// New creates the process logger. The returned logger must be closed to
// flush buffered entries.
func New(opts Options) (l.Logger, error) {
	var output io.Writer = os.Stderr
	jsonFormat := opts.JSON || !isTerminal(os.Stderr)

	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		jsonFormat = true
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  jsonFormat,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 100 * 1024 * 1024,
		MaxBackups:  5,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// Discard returns a logger that drops everything, for tests and dry runs.
func Discard() (l.Logger, error) {
	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:     io.Discard,
		JsonFormat: true,
	})
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

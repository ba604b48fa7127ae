package labelprep

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/labelprep/pkg/labelprep/normalize"
	"github.com/cognicore/labelprep/pkg/labelprep/sink"
	"github.com/cognicore/labelprep/pkg/labelprep/source"
)

// Sink receives output rows in id order.
type Sink interface {
	Write(row sink.Row) error
}

// Logger is the part of l.Logger the extractor uses.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

// Extractor pulls records from a source, normalizes their text, and hands
// numbered rows to a sink, one record at a time.
type Extractor struct {
	source        source.Source
	pipeline      *normalize.Pipeline
	sink          Sink
	logger        Logger
	progressEvery int64
	entropy       *ulid.MonotonicEntropy
	now           func() time.Time
}

// Options configures an Extractor.
type Options struct {
	Source        source.Source
	Pipeline      *normalize.Pipeline
	Sink          Sink
	Logger        Logger // Optional
	ProgressEvery int64  // Defaults to 20,000
}

// Summary reports what a run did.
type Summary struct {
	RunID   string
	Records int64
	Elapsed time.Duration
}

// New creates an Extractor with the given dependencies.
func New(opts Options) *Extractor {
	progress := opts.ProgressEvery
	if progress <= 0 {
		progress = 20000
	}
	return &Extractor{
		source:        opts.Source,
		pipeline:      opts.Pipeline,
		sink:          opts.Sink,
		logger:        opts.Logger,
		progressEvery: progress,
		entropy:       ulid.Monotonic(rand.Reader, 0),
		now:           time.Now,
	}
}

// Run drains the source. Output ids start at 1 and increase by one per
// record. Any error aborts the run; rows already handed to the sink stay
// written.
func (e *Extractor) Run(ctx context.Context) (Summary, error) {
	started := e.now()
	summary := Summary{RunID: ulid.MustNew(ulid.Timestamp(started), e.entropy).String()}
	e.info("Starting extraction", "run", summary.RunID)

	for id := int64(1); ; id++ {
		rec, err := e.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			summary.Elapsed = e.now().Sub(started)
			return summary, fmt.Errorf("read record %d: %w", id, err)
		}

		text := e.pipeline.NormalizeNull(rec.Text)
		row := sink.Row{ID: id, SourceID: rec.ID, Words: strings.Fields(text)}
		if err := e.sink.Write(row); err != nil {
			summary.Elapsed = e.now().Sub(started)
			return summary, fmt.Errorf("write record %d (%s): %w", id, rec.ID, err)
		}

		summary.Records = id
		if id%e.progressEvery == 0 {
			e.info("Processed records", "run", summary.RunID, "count", id)
		}
	}

	summary.Elapsed = e.now().Sub(started)
	e.info("Extraction complete", "run", summary.RunID, "records", summary.Records, "elapsed", summary.Elapsed.String())
	return summary, nil
}

func (e *Extractor) info(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

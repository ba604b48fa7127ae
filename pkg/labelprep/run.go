package labelprep

import (
	"context"
	"errors"
	"fmt"

	"github.com/baditaflorin/l"

	"github.com/cognicore/labelprep/pkg/labelprep/config"
	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
	"github.com/cognicore/labelprep/pkg/labelprep/sink"
	"github.com/cognicore/labelprep/pkg/labelprep/source"
)

// Result is the outcome of Execute.
type Result struct {
	Summary Summary
	Files   []sink.FileStat
}

// Execute runs a full export described by cfg. Configuration is checked
// before anything is opened, credentials before any connection attempt, and
// every handle acquired here is released on return, whatever the outcome.
func Execute(ctx context.Context, cfg config.Config, lookup config.LookupFunc, logger l.Logger) (res Result, err error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	comp, err := cfg.Normalize.Build()
	if err != nil {
		return Result{}, err
	}

	out, err := sink.Open(sink.Options{
		Dir:       cfg.Output.Dir,
		Prefix:    cfg.Output.Prefix,
		BatchSize: cfg.Output.BatchSize,
		Header:    cfg.Output.Header,
		Logger:    logger,
	})
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, out.Close())
		res.Files = out.Files()
	}()

	src, closeSource, err := OpenSource(ctx, cfg.Source, lookup)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, closeSource())
	}()

	ex := New(Options{
		Source:        src,
		Pipeline:      comp.Pipeline,
		Sink:          out,
		Logger:        logger,
		ProgressEvery: cfg.ProgressEvery,
	})
	res.Summary, err = ex.Run(ctx)
	return res, err
}

// OpenSource opens the record source cfg describes. The returned close
// function releases the source and any database handle behind it.
func OpenSource(ctx context.Context, cfg config.Source, lookup config.LookupFunc) (source.Source, func() error, error) {
	switch cfg.Driver {
	case config.DriverJSONL:
		src, err := source.OpenJSONL(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil

	case source.DriverSQLite, source.DriverPostgres:
		dsn := cfg.DSN
		if cfg.Driver == source.DriverPostgres {
			var err error
			dsn, err = cfg.PostgresDSN(lookup)
			if err != nil {
				return nil, nil, err
			}
		}

		db, err := source.Connect(ctx, cfg.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}

		var src source.Source
		if cfg.Driver == source.DriverPostgres && cfg.Cursor {
			src, err = source.NewCursor(ctx, db, cfg.CursorName, cfg.Query, cfg.FetchSize)
		} else {
			src, err = source.NewQuery(ctx, db, cfg.Query)
		}
		if err != nil {
			db.Close()
			return nil, nil, err
		}

		closeAll := func() error {
			return errors.Join(src.Close(), db.Close())
		}
		return src, closeAll, nil

	default:
		return nil, nil, fmt.Errorf("%w: unsupported source driver %q", internalerr.ErrInvalidConfig, cfg.Driver)
	}
}

// DryRun reads and normalizes every record cfg describes without writing
// output or taking the directory lock.
func DryRun(ctx context.Context, cfg config.Config, lookup config.LookupFunc, logger l.Logger) (sum Summary, err error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	comp, err := cfg.Normalize.Build()
	if err != nil {
		return Summary{}, err
	}

	src, closeSource, err := OpenSource(ctx, cfg.Source, lookup)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		err = errors.Join(err, closeSource())
	}()

	ex := New(Options{
		Source:        src,
		Pipeline:      comp.Pipeline,
		Sink:          discardSink{},
		Logger:        logger,
		ProgressEvery: cfg.ProgressEvery,
	})
	return ex.Run(ctx)
}

type discardSink struct{}

func (discardSink) Write(sink.Row) error { return nil }

package kzseed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/seed"
	"github.com/kiltia/kzseed/pkg/log"
	"github.com/kiltia/kzseed/pkg/util"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// Writer saves the rows of one table to every configured sink.
type Writer[S seed.Row] struct {
	table string
	sinks []Sink[S]
	cfg   config.WriterConfig
}

func NewWriter[S seed.Row](
	table string,
	backends []Backend,
	cfg config.WriterConfig,
) (*Writer[S], error) {
	sinks, err := newSinks[S](backends, table)
	if err != nil {
		return nil, fmt.Errorf("creating sinks for %s: %w", table, err)
	}
	return &Writer[S]{table: table, sinks: sinks, cfg: cfg}, nil
}

// Write creates the table if asked to, then inserts the rows in batches of
// the configured size. Nothing is written for an empty row set.
func (w *Writer[S]) Write(ctx context.Context, rows []S) error {
	logger := zap.S().With("tag", log.LogTagWriting, "table", w.table)

	if w.cfg.InitTables {
		if err := w.initTable(ctx); err != nil {
			return err
		}
	}

	if len(rows) == 0 {
		logger.Warnw("nothing to write")
		return nil
	}

	var errs []error
	for _, sink := range w.sinks {
		for _, batch := range util.Chunk(rows, w.cfg.InsertBatchSize) {
			if err := w.write(ctx, sink, batch); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("writing %s: %w", w.table, err)
	}

	logger.Infow("saved rows", "rows", len(rows), "sinks", len(w.sinks))
	return nil
}

func (w *Writer[S]) initTable(ctx context.Context) error {
	var errs []error
	for _, sink := range w.sinks {
		errs = append(errs, sink.InitTable(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("initializing table %s: %w", w.table, err)
	}
	return nil
}

func (w *Writer[S]) write(ctx context.Context, sink Sink[S], batch []S) error {
	return retry.Do(
		func() error {
			err := sink.InsertBatch(ctx, batch)
			if err != nil {
				zap.S().Errorw(
					"saving batch",
					"tag", log.LogTagWriting,
					"table", w.table,
					"batch_len", len(batch),
					"error", err,
				)
			}
			return err
		},
		retry.Attempts(uint(max(w.cfg.Retries, 0))+1),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}

package kzseed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/seed"

	"go.uber.org/zap"
)

// Sink writes rows of a single table.
type Sink[S seed.Row] interface {
	InitTable(ctx context.Context) error
	InsertBatch(ctx context.Context, batch []S) error
}

// Backend is an open destination shared by the sinks of every table.
type Backend interface {
	Name() string
	Close() error
}

// newSink binds the backend to a table holding rows of type S.
func newSink[S seed.Row](backend Backend, table string) (Sink[S], error) {
	switch b := backend.(type) {
	case *ScriptBackend:
		return &ScriptSink[S]{backend: b, table: table}, nil
	case *ClickhouseBackend:
		return &ClickhouseSink[S]{backend: b, table: table}, nil
	case *PostgresBackend:
		return &PostgresSink[S]{backend: b, table: table}, nil
	default:
		return nil, fmt.Errorf("unsupported backend %T", backend)
	}
}

func newSinks[S seed.Row](backends []Backend, table string) ([]Sink[S], error) {
	sinks := make([]Sink[S], 0, len(backends))
	for _, backend := range backends {
		sink, err := newSink[S](backend, table)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func openBackends(
	ctx context.Context,
	cfgs []config.SinkConfig,
) ([]Backend, error) {
	var backends []Backend
	var errs []error
	for _, cfg := range cfgs {
		backend, err := openBackend(ctx, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("initializing %s sink: %w", cfg.Backend, err))
			continue
		}
		zap.S().Infow("opened sink", "backend", backend.Name())
		backends = append(backends, backend)
	}
	if err := errors.Join(errs...); err != nil {
		_ = closeBackends(backends)
		return nil, err
	}
	return backends, nil
}

func openBackend(ctx context.Context, cfg config.SinkConfig) (Backend, error) {
	if cfg.Backend == config.BackendScript {
		return NewScriptBackend(cfg.Path)
	}

	creds, err := loadCreds(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	cfg.Credentials = *creds

	switch cfg.Backend {
	case config.BackendClickhouse:
		return NewClickhouseBackend(ctx, cfg)
	case config.BackendPostgres:
		return NewPostgresBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func closeBackends(backends []Backend) error {
	var errs []error
	for _, backend := range backends {
		if err := backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s sink: %w", backend.Name(), err))
		}
	}
	return errors.Join(errs...)
}

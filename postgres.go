package kzseed

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/seed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresBackend struct {
	Pool *pgxpool.Pool
}

func NewPostgresBackend(
	ctx context.Context,
	cfg config.SinkConfig,
) (*PostgresBackend, error) {
	zap.S().Debug("opening connection pool to the Postgres")
	pool, err := pgxpool.New(ctx, postgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging server: %w", err)
	}
	return &PostgresBackend{Pool: pool}, nil
}

func postgresURL(cfg config.SinkConfig) string {
	host := cfg.Host
	if cfg.Port != "" {
		host = net.JoinHostPort(cfg.Host, cfg.Port)
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + cfg.Database,
	}
	if cfg.Credentials.Username != "" {
		u.User = url.UserPassword(cfg.Credentials.Username, cfg.Credentials.Password)
	}
	return u.String()
}

func (b *PostgresBackend) Name() string { return config.BackendPostgres }

func (b *PostgresBackend) Close() error {
	b.Pool.Close()
	return nil
}

type PostgresSink[S seed.Row] struct {
	backend *PostgresBackend
	table   string
}

func (s *PostgresSink[S]) InitTable(ctx context.Context) error {
	var nilInstance S
	query := postgresCreateQuery(s.table, nilInstance.Schema())
	zap.S().Debugw("creating table", "query", query)
	_, err := s.backend.Pool.Exec(ctx, query)
	return err
}

func (s *PostgresSink[S]) InsertBatch(ctx context.Context, batch []S) error {
	if len(batch) == 0 {
		return nil
	}
	columns := seed.ColumnNames(batch[0].Schema())
	rows := make([][]any, len(batch))
	for i, row := range batch {
		rows[i] = row.Values()
	}

	copied, err := s.backend.Pool.CopyFrom(
		ctx,
		pgx.Identifier{s.table},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("copied %d rows out of %d", copied, len(rows))
	}
	return nil
}

func postgresCreateQuery(table string, schema []seed.Column) string {
	columns := make([]string, 0, len(schema)+1)
	for _, col := range schema {
		columns = append(columns, fmt.Sprintf("    %s %s", col.Name, postgresType(col)))
	}
	if keys := seed.KeyColumns(schema); len(keys) > 0 {
		columns = append(columns, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(columns, ",\n"),
	)
}

// Postgres has no unsigned integers, so every type is one size up.
func postgresType(col seed.Column) string {
	var t string
	switch col.Type {
	case seed.TypeUInt8:
		t = "SMALLINT"
	case seed.TypeUInt16:
		t = "INTEGER"
	case seed.TypeUInt32:
		t = "BIGINT"
	case seed.TypeString:
		t = "TEXT"
	case seed.TypeBool:
		t = "BOOLEAN"
	case seed.TypeDateTime:
		t = "TIMESTAMP"
	}
	if !col.Nullable {
		t += " NOT NULL"
	}
	return t
}

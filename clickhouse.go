package kzseed

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/seed"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

type ClickhouseBackend struct {
	Conn driver.Conn
}

func NewClickhouseBackend(
	ctx context.Context,
	cfg config.SinkConfig,
) (*ClickhouseBackend, error) {
	zap.S().Debug("opening connection to the ClickHouse")
	conn, err := clickhouse.Open(
		&clickhouse.Options{
			Addr: []string{
				fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			},
			Auth: clickhouse.Auth{
				Database: cfg.Database,
				Username: cfg.Credentials.Username,
				Password: cfg.Credentials.Password,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging server: %w", err)
	}
	version, err := conn.ServerVersion()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("retrieving server version: %w", err)
	}
	zap.S().Infow(
		"connected to the ClickHouse",
		"version", fmt.Sprintf("%v", version.Version),
	)
	return &ClickhouseBackend{Conn: conn}, nil
}

func (b *ClickhouseBackend) Name() string { return config.BackendClickhouse }

func (b *ClickhouseBackend) Close() error { return b.Conn.Close() }

type ClickhouseSink[S seed.Row] struct {
	backend *ClickhouseBackend
	table   string
}

func (s *ClickhouseSink[S]) InitTable(ctx context.Context) error {
	var nilInstance S
	query := clickhouseCreateQuery(s.table, nilInstance.Schema())
	zap.S().Debugw("creating table", "query", query)
	return s.backend.Conn.Exec(ctx, query)
}

func (s *ClickhouseSink[S]) InsertBatch(ctx context.Context, batch []S) error {
	query := fmt.Sprintf("INSERT INTO %s", s.table)
	zap.S().Debugw(
		"sending query to the database",
		"query", query,
		"rows", len(batch),
	)
	batchBuilder, err := s.backend.Conn.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	for i := range batch {
		if err := batchBuilder.AppendStruct(&batch[i]); err != nil {
			_ = batchBuilder.Abort()
			return err
		}
	}
	return batchBuilder.Send()
}

func clickhouseCreateQuery(table string, schema []seed.Column) string {
	columns := make([]string, len(schema))
	for i, col := range schema {
		columns[i] = fmt.Sprintf("    %s %s", col.Name, clickhouseType(col))
	}
	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s
(
%s
)
ENGINE = ReplacingMergeTree
ORDER BY (%s)`,
		table,
		strings.Join(columns, ",\n"),
		strings.Join(seed.KeyColumns(schema), ", "),
	)
}

func clickhouseType(col seed.Column) string {
	var t string
	switch col.Type {
	case seed.TypeUInt8:
		t = "UInt8"
	case seed.TypeUInt16:
		t = "UInt16"
	case seed.TypeUInt32:
		t = "UInt32"
	case seed.TypeString:
		t = "String"
	case seed.TypeBool:
		t = "Bool"
	case seed.TypeDateTime:
		t = "DateTime"
	}
	if col.Nullable {
		return fmt.Sprintf("Nullable(%s)", t)
	}
	return t
}

package kzseed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/internal/seed"

	"go.uber.org/zap"
)

const scriptTimestampLayout = "2006-01-02 15:04:05"

var insertTemplate = template.Must(template.New("insert").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`INSERT INTO {{ .Table }}
  ({{ join .Columns ", " }})
VALUES
{{- range $i, $row := .Rows }}
{{ if $i }} ,{{ else }}  {{ end }}({{ join $row ", " }})
{{- end }};
`))

var createTemplate = template.Must(template.New("create").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`CREATE TABLE IF NOT EXISTS {{ .Table }} (
{{- range $i, $col := .Columns }}
{{ if $i }} ,{{ else }}  {{ end }}{{ $col }}
{{- end }}
{{- if .Keys }}
 ,PRIMARY KEY ({{ join .Keys ", " }})
{{- end }}
);
`))

type insertStatement struct {
	Table   string
	Columns []string
	Rows    [][]string
}

type createStatement struct {
	Table   string
	Columns []string
	Keys    []string
}

// ScriptBackend writes SQL statements to a file or the standard output.
// Consecutive statements are separated by a blank line.
type ScriptBackend struct {
	mu      sync.Mutex
	out     io.Writer
	closer  io.Closer
	written bool
}

// NewScriptBackend opens path for writing, "-" being the standard output.
func NewScriptBackend(path string) (*ScriptBackend, error) {
	if path == config.StdoutPath {
		return NewScriptWriter(os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating script file: %w", err)
	}
	return &ScriptBackend{out: f, closer: f}, nil
}

func NewScriptWriter(w io.Writer) *ScriptBackend {
	return &ScriptBackend{out: w}
}

func (b *ScriptBackend) Name() string { return config.BackendScript }

func (b *ScriptBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *ScriptBackend) writeStatement(tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.written {
		if _, err := io.WriteString(b.out, "\n"); err != nil {
			return err
		}
	}
	if _, err := b.out.Write(buf.Bytes()); err != nil {
		return err
	}
	b.written = true
	return nil
}

type ScriptSink[S seed.Row] struct {
	backend *ScriptBackend
	table   string
}

func (s *ScriptSink[S]) InitTable(ctx context.Context) error {
	var nilInstance S
	schema := nilInstance.Schema()
	columns := make([]string, len(schema))
	for i, col := range schema {
		columns[i] = col.Name + " " + mysqlType(col)
	}
	return s.backend.writeStatement(createTemplate, createStatement{
		Table:   s.table,
		Columns: columns,
		Keys:    seed.KeyColumns(schema),
	})
}

func (s *ScriptSink[S]) InsertBatch(ctx context.Context, batch []S) error {
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stmt := insertStatement{
		Table:   s.table,
		Columns: seed.ColumnNames(batch[0].Schema()),
		Rows:    make([][]string, len(batch)),
	}
	for i, row := range batch {
		values := row.Values()
		literals := make([]string, len(values))
		for j, v := range values {
			literal, err := sqlLiteral(v)
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", i, stmt.Columns[j], err)
			}
			literals[j] = literal
		}
		stmt.Rows[i] = literals
	}

	zap.S().Debugw(
		"writing insert statement",
		"table", s.table,
		"rows", len(batch),
	)
	return s.backend.writeStatement(insertTemplate, stmt)
}

func sqlLiteral(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case string:
		return quote(v), nil
	case time.Time:
		return quote(v.UTC().Format(scriptTimestampLayout)), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

func mysqlType(col seed.Column) string {
	var t string
	switch col.Type {
	case seed.TypeUInt8:
		t = "TINYINT UNSIGNED"
	case seed.TypeUInt16:
		t = "SMALLINT UNSIGNED"
	case seed.TypeUInt32:
		t = "INT UNSIGNED"
	case seed.TypeString:
		t = "VARCHAR(255)"
	case seed.TypeBool:
		t = "BOOLEAN"
	case seed.TypeDateTime:
		t = "DATETIME"
	}
	if !col.Nullable {
		t += " NOT NULL"
	}
	return t
}

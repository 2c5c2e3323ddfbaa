package seed

type ColumnType int

const (
	TypeUInt8 ColumnType = iota
	TypeUInt16
	TypeUInt32
	TypeString
	TypeBool
	TypeDateTime
)

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	// Part of the primary key
	Key bool
}

// Row is a record of one of the destination tables.
type Row interface {
	Schema() []Column
	// Values in the same order as Schema. Nullable columns hold nil or a
	// pointer.
	Values() []any
}

func ColumnNames(schema []Column) []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	return names
}

func KeyColumns(schema []Column) []string {
	var keys []string
	for _, c := range schema {
		if c.Key {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

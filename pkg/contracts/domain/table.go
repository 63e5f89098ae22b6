package domain

// RawTable is the in-memory form of a loaded CSV dataset: the original header
// order plus rows of string cells exactly as they appeared in the source.
// Column lookup is by name so the pipeline is independent of column order.
type RawTable struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewRawTable builds a table from a header row and data rows.
func NewRawTable(columns []string, rows [][]string) *RawTable {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	return &RawTable{Columns: columns, Rows: rows, index: index}
}

// HasColumn reports whether the table contains the named column.
func (t *RawTable) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Field returns the cell for the named column in the given row. The second
// return value is false when the column is absent or the row is short.
func (t *RawTable) Field(row []string, name string) (string, bool) {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

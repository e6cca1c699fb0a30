// Package table is the in-memory tabular engine consumed by the operation
// layer. It provides the three primitives the execution layer needs: building
// a table from records, a left outer merge and CSV reading. Values are kept
// untyped until a field's declared data type re-types them.
package table

import (
	"fmt"
	"sort"
)

// Row maps a column name to a cell value.
type Row map[string]any

// Table is a small column-ordered collection of rows.
type Table struct {
	columns []string
	rows    []Row
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// FromRecords builds a table from a list of records. The column order is the
// sorted union of all record keys, since JSON objects carry no key order.
func FromRecords(records []map[string]any) *Table {
	seen := make(map[string]struct{})
	var columns []string
	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)

	t := New(columns...)
	for _, record := range records {
		row := make(Row, len(record))
		for key, value := range record {
			row[key] = value
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the underlying rows. Callers must not mutate them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Append adds a row. Cells for unknown columns are kept; they only become
// visible if the column is later declared.
func (t *Table) Append(row Row) {
	t.rows = append(t.rows, row)
}

// Column returns all values of the named column, row by row.
func (t *Table) Column(name string) ([]any, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("no column %q, existing columns: %v", name, t.columns)
	}
	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[name]
	}
	return values, nil
}

// Apply returns a copy of the table with fn applied to every value of the
// named column. The receiver is left untouched.
func (t *Table) Apply(name string, fn func(any) any) (*Table, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("no column %q, existing columns: %v", name, t.columns)
	}
	out := New(t.columns...)
	for _, row := range t.rows {
		next := make(Row, len(row))
		for key, value := range row {
			if key == name {
				next[key] = fn(value)
			} else {
				next[key] = value
			}
		}
		out.rows = append(out.rows, next)
	}
	return out, nil
}

// Select returns a single-column copy of the table, with the column renamed.
func (t *Table) Select(name, renameTo string) (*Table, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := New(renameTo)
	for _, value := range values {
		out.rows = append(out.rows, Row{renameTo: value})
	}
	return out, nil
}

// LeftMerge combines two tables with a left outer join on the given key
// columns. Every left row is preserved; where the key matches one or more
// right rows, one output row per match is produced with the right columns
// filled in. Right columns that collide with a left column keep the left
// value, and the right key column is dropped when it has the same name as the
// left one.
func LeftMerge(left, right *Table, leftOn, rightOn string) (*Table, error) {
	if !left.HasColumn(leftOn) {
		return nil, fmt.Errorf("no column %q, existing columns: %v", leftOn, left.columns)
	}
	if !right.HasColumn(rightOn) {
		return nil, fmt.Errorf("no column %q, existing columns: %v", rightOn, right.columns)
	}

	columns := left.Columns()
	for _, c := range right.columns {
		if c == rightOn && rightOn == leftOn {
			continue
		}
		if !left.HasColumn(c) {
			columns = append(columns, c)
		}
	}

	index := make(map[any][]Row)
	for _, row := range right.rows {
		key := row[rightOn]
		index[key] = append(index[key], row)
	}

	out := New(columns...)
	for _, leftRow := range left.rows {
		matches := index[leftRow[leftOn]]
		if len(matches) == 0 {
			out.rows = append(out.rows, cloneRow(leftRow))
			continue
		}
		for _, rightRow := range matches {
			merged := cloneRow(leftRow)
			for key, value := range rightRow {
				if _, taken := merged[key]; !taken {
					merged[key] = value
				}
			}
			out.rows = append(out.rows, merged)
		}
	}
	return out, nil
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for key, value := range row {
		out[key] = value
	}
	return out
}

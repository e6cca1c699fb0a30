package operation

import (
	"context"
	"fmt"

	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// CollectRecords is the terminal operation of a record set: it zips the
// per-field columns back into one table, in field declaration order.
type CollectRecords struct {
	base
	recordSet *structure.RecordSet
}

// Execute combines the single-column field tables. All inputs must have the
// same row count; a mismatch means the compiler wired inconsistent sources
// and is an internal error.
func (c *CollectRecords) Execute(_ context.Context, inputs []Result) (Result, error) {
	fields := c.recordSet.Fields
	if len(inputs) != len(fields) {
		return nil, fmt.Errorf("internal error: collect for node %q expects %d inputs, got %d",
			c.recordSet.UID(), len(fields), len(inputs))
	}

	columns := make([]string, len(fields))
	tables := make([]*table.Table, len(fields))
	rowCount := 0
	for i, field := range fields {
		t, ok := inputs[i].(*table.Table)
		if !ok {
			return nil, fmt.Errorf("collect for node %q expects tabular inputs, got %T",
				c.recordSet.UID(), inputs[i])
		}
		if i == 0 {
			rowCount = t.Len()
		} else if t.Len() != rowCount {
			return nil, fmt.Errorf("internal error: field %q yields %d rows, expected %d",
				field.UID(), t.Len(), rowCount)
		}
		columns[i] = field.Name()
		tables[i] = t
	}

	out := table.New(columns...)
	for rowIdx := 0; rowIdx < rowCount; rowIdx++ {
		row := make(table.Row, len(fields))
		for i, field := range fields {
			row[field.Name()] = tables[i].Rows()[rowIdx][field.Name()]
		}
		out.Append(row)
	}
	return out, nil
}

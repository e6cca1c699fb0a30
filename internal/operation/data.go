package operation

import (
	"context"

	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// Data materializes a record set's inline literal records as a table. It has
// no inputs; the literal fields map 1:1 to columns, untyped until each
// field's declared data type is applied.
type Data struct {
	base
	recordSet *structure.RecordSet
}

// Execute builds the table from the literal records.
func (d *Data) Execute(_ context.Context, _ []Result) (Result, error) {
	return table.FromRecords(d.recordSet.Data), nil
}

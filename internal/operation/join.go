package operation

import (
	"context"
	"fmt"

	"github.com/PGijsbers/croissant/internal/structure"
	"github.com/PGijsbers/croissant/internal/table"
)

// Join combines two tabular operands with a left outer merge on
// cross-referenced key columns. Topological order does not guarantee which
// structural operand arrives first, so operand roles are normalized from the
// data: if the declared left key is absent from the first table, the operands
// are swapped. The left key column has its declared transforms applied before
// matching.
type Join struct {
	base
	recordSet *structure.RecordSet
	left      structure.Source
	right     structure.Source
}

// Execute merges the two operands. A single operand passes through; any
// other operand count is a configuration error.
func (j *Join) Execute(_ context.Context, inputs []Result) (Result, error) {
	tables := make([]*table.Table, 0, len(inputs))
	for _, input := range inputs {
		t, ok := input.(*table.Table)
		if !ok {
			return nil, fmt.Errorf("join for node %q got unexpected input %T", j.recordSet.UID(), input)
		}
		tables = append(tables, t)
	}

	switch len(tables) {
	case 1:
		return tables[0], nil
	case 2:
		// Handled below.
	default:
		return nil, fmt.Errorf("unsupported: trying to join %d tables for node %q",
			len(tables), j.recordSet.UID())
	}

	if j.left.IsEmpty() || j.left.Column == "" {
		return nil, fmt.Errorf("join for node %q has no valid left reference", j.recordSet.UID())
	}
	if j.right.IsEmpty() || j.right.Column == "" {
		return nil, fmt.Errorf("join for node %q has no valid right reference", j.recordSet.UID())
	}

	leftKey, rightKey := j.left.Column, j.right.Column
	dfLeft, dfRight := tables[0], tables[1]
	if !dfLeft.HasColumn(leftKey) || !dfRight.HasColumn(rightKey) {
		dfLeft, dfRight = dfRight, dfLeft
	}
	if !dfLeft.HasColumn(leftKey) {
		return nil, fmt.Errorf("column %q does not exist in node %q, existing columns: %v",
			leftKey, j.left.Node, dfLeft.Columns())
	}
	if !dfRight.HasColumn(rightKey) {
		return nil, fmt.Errorf("column %q does not exist in node %q, existing columns: %v",
			rightKey, j.right.Node, dfRight.Columns())
	}

	dfLeft, err := dfLeft.Apply(leftKey, func(v any) any {
		return applyTransforms(v, j.left)
	})
	if err != nil {
		return nil, fmt.Errorf("join for node %q: %w", j.recordSet.UID(), err)
	}

	merged, err := table.LeftMerge(dfLeft, dfRight, leftKey, rightKey)
	if err != nil {
		return nil, fmt.Errorf("join for node %q: %w", j.recordSet.UID(), err)
	}
	return merged, nil
}

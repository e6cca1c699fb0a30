package operation

import (
	"context"
	"fmt"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/table"
)

// Execute runs every operation of the plan exactly once, in an order
// consistent with the dependency edges, feeding each operation the cached
// outputs of its predecessors. Execution is synchronous and single-threaded;
// the first failing operation aborts the run.
func (p *Plan) Execute(ctx context.Context) (*table.Table, error) {
	logger := ctxlog.FromContext(ctx)

	order, err := p.graph.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("internal error: %w", err)
	}

	results := make(map[string]Result, len(order))
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op := p.ops[id]
		inputs := make([]Result, 0, len(p.inputs[id]))
		for _, inputID := range p.inputs[id] {
			inputs = append(inputs, results[inputID])
		}
		logger.Debug("Executing operation.", "operation", id, "inputs", len(inputs))
		output, err := op.Execute(ctx, inputs)
		if err != nil {
			return nil, fmt.Errorf("operation %s failed: %w", id, err)
		}
		results[id] = output
	}

	final, ok := results[p.target].(*table.Table)
	if !ok {
		return nil, fmt.Errorf("internal error: target operation %s produced %T, expected a table",
			p.target, results[p.target])
	}
	return final, nil
}

// Operations returns the IDs of all compiled operations, in a valid
// execution order.
func (p *Plan) Operations() []string {
	order, err := p.graph.TopologicalOrder()
	if err != nil {
		return nil
	}
	return order
}

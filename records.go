package croissant

import (
	"context"

	"github.com/PGijsbers/croissant/internal/operation"
	"github.com/PGijsbers/croissant/internal/table"
)

// Record maps a field name to its materialized, type-coerced value.
type Record map[string]any

// Records streams the materialized records of one record set. The underlying
// operations execute on the first call to Next; the stream is single-pass
// and cannot be restarted — obtain a fresh iterator to consume it again.
type Records struct {
	ctx  context.Context
	plan *operation.Plan

	rows    []table.Row
	started bool
	current Record
	err     error
}

// Next advances to the next record. It returns false when the stream is
// exhausted or an error occurred; check Err after the loop.
func (r *Records) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.started {
		r.started = true
		result, err := r.plan.Execute(r.ctx)
		if err != nil {
			r.err = err
			return false
		}
		r.rows = result.Rows()
	}
	if len(r.rows) == 0 {
		r.current = nil
		return false
	}
	row := r.rows[0]
	r.rows = r.rows[1:]
	record := make(Record, len(row))
	for key, value := range row {
		record[key] = value
	}
	r.current = record
	return true
}

// Record returns the record Next advanced to.
func (r *Records) Record() Record {
	return r.current
}

// Err returns the first error hit while materializing records.
func (r *Records) Err() error {
	return r.err
}

// Package operation lowers a validated structure graph into a DAG of data
// operations and executes it. Each operation consumes the cached outputs of
// its predecessors and produces one result; execution errors are fatal to the
// run, never aggregated, since they occur after the document was declared
// structurally valid.
package operation

import (
	"context"
	"fmt"

	"github.com/PGijsbers/croissant/internal/structure"
)

// Result is the output of one operation: a *table.Table, a local path string,
// a []Path file listing, depending on the operation kind.
type Result any

// Operation is one vertex of the operation graph.
type Operation interface {
	// ID uniquely identifies the operation within a plan, e.g.
	// "Read(a-csv-table)".
	ID() string
	// Execute runs the operation with the outputs of its predecessors, in
	// the order the compiler wired them.
	Execute(ctx context.Context, inputs []Result) (Result, error)
}

// base ties an operation to the structural node it materializes.
type base struct {
	kind string
	node structure.Node
}

func (b base) ID() string {
	return fmt.Sprintf("%s(%s)", b.kind, b.node.UID())
}

// Path describes one file matched by a file set: where it lives on disk, its
// bare name and its path relative to the listing root.
type Path struct {
	Filepath string
	Filename string
	Fullpath string
}

// Column names under which Path properties surface in tables.
const (
	FilePropertyFilepath = "filepath"
	FilePropertyFilename = "filename"
	FilePropertyFullpath = "fullpath"
)

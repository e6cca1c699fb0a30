package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/dag"
	"github.com/PGijsbers/croissant/internal/structure"
)

// Options configures compilation of an operation graph.
type Options struct {
	// BaseDir is the directory of the metadata document; contentUrl values
	// without a scheme are resolved against it.
	BaseDir string
	// CacheDir stores downloads and extractions. Defaults to a croissant
	// directory under the OS temp dir.
	CacheDir string
	// Fetcher retrieves remote content. Defaults to an HTTPFetcher.
	Fetcher Fetcher
}

// Plan is a compiled operation graph for one record set, ready to execute.
type Plan struct {
	graph  *dag.Graph
	ops    map[string]Operation
	inputs map[string][]string
	target string
}

type compiler struct {
	structure *structure.Graph
	plan      *Plan
	opts      Options
	// compiling tracks record sets whose compilation is on the stack. Field
	// cycle checks during validation run per edge, so two record sets can
	// still reference each other through disjoint fields; re-entering one is
	// the compile-time symptom of that.
	compiling map[string]bool
}

// Compile lowers the validated structure graph into the operation DAG needed
// to materialize the named record set. Only operations actually reachable
// from that record set are created.
func Compile(ctx context.Context, g *structure.Graph, recordSet string, opts Options) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Fetcher == nil {
		opts.Fetcher = &HTTPFetcher{}
	}
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(os.TempDir(), "croissant")
	}

	rs, ok := g.RecordSet(recordSet)
	if !ok {
		return nil, fmt.Errorf("record set %q does not exist in dataset %q",
			recordSet, g.Metadata().Name())
	}

	c := &compiler{
		structure: g,
		plan: &Plan{
			graph:  dag.New(),
			ops:    make(map[string]Operation),
			inputs: make(map[string][]string),
		},
		opts:      opts,
		compiling: make(map[string]bool),
	}
	collect, err := c.compileRecordSet(rs)
	if err != nil {
		return nil, err
	}
	c.plan.target = collect.ID()

	// The structure graph was validated acyclic, so a cycle here means the
	// compiler itself wired inconsistent edges.
	if err := c.plan.graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("internal error: operation graph is not a DAG: %w", err)
	}
	logger.Debug("Operation graph compiled.", "record_set", recordSet,
		"operations", c.plan.graph.Len())
	return c.plan, nil
}

// add registers an operation with its inputs. An operation that already
// exists is returned as-is, so shared upstream work (downloads, reads) is
// created once no matter how many consumers it has.
func (c *compiler) add(op Operation, inputs ...Operation) (Operation, error) {
	id := op.ID()
	if existing, ok := c.plan.ops[id]; ok {
		return existing, nil
	}
	c.plan.ops[id] = op
	c.plan.graph.AddNode(id)
	for _, input := range inputs {
		if err := c.plan.graph.AddEdge(input.ID(), id); err != nil {
			return nil, fmt.Errorf("internal error: %w", err)
		}
		c.plan.inputs[id] = append(c.plan.inputs[id], input.ID())
	}
	return op, nil
}

// compileRecordSet produces the terminal CollectRecords operation for a
// record set, compiling everything it depends on along the way.
func (c *compiler) compileRecordSet(rs *structure.RecordSet) (Operation, error) {
	if existing, ok := c.plan.ops[(&CollectRecords{base: base{kind: "CollectRecords", node: rs}}).ID()]; ok {
		return existing, nil
	}
	if c.compiling[rs.UID()] {
		return nil, fmt.Errorf("internal error: record set reference cycle involving %q", rs.UID())
	}
	c.compiling[rs.UID()] = true
	defer delete(c.compiling, rs.UID())

	assembled, err := c.assemble(rs)
	if err != nil {
		return nil, err
	}

	readFields := make([]Operation, 0, len(rs.Fields))
	for _, field := range rs.Fields {
		readField, err := c.add(&ReadField{
			base:  base{kind: "ReadField", node: field},
			field: field,
		}, assembled)
		if err != nil {
			return nil, err
		}
		readFields = append(readFields, readField)
	}
	return c.add(&CollectRecords{
		base:      base{kind: "CollectRecords", node: rs},
		recordSet: rs,
	}, readFields...)
}

// assemble produces the operation whose output is the record set's combined
// source table: the inline Data table, a single distribution's table, or a
// left-to-right chain of binary joins when fields read from several sources.
func (c *compiler) assemble(rs *structure.RecordSet) (Operation, error) {
	if rs.HasData() {
		return c.add(&Data{base: base{kind: "Data", node: rs}, recordSet: rs})
	}

	var sourceNodes []structure.Node
	seen := make(map[string]bool)
	for _, field := range rs.Fields {
		if field.Source.IsEmpty() {
			continue
		}
		node, err := c.sourceNode(field.Source)
		if err != nil {
			return nil, err
		}
		if node.UID() == rs.UID() || seen[node.UID()] {
			continue
		}
		seen[node.UID()] = true
		sourceNodes = append(sourceNodes, node)
	}
	if len(sourceNodes) == 0 {
		return nil, fmt.Errorf("record set %q has no source to read from", rs.UID())
	}

	current, err := c.tableSource(sourceNodes[0])
	if err != nil {
		return nil, err
	}
	for i, node := range sourceNodes[1:] {
		right, err := c.tableSource(node)
		if err != nil {
			return nil, err
		}
		leftRef, rightRef, ok := c.joinReferences(rs, node.UID())
		if !ok {
			return nil, fmt.Errorf("record set %q combines source %q but no field references it",
				rs.UID(), node.UID())
		}
		kind := "Join"
		if i > 0 {
			kind = fmt.Sprintf("Join[%d]", i+1)
		}
		current, err = c.add(&Join{
			base:      base{kind: kind, node: rs},
			recordSet: rs,
			left:      leftRef,
			right:     rightRef,
		}, current, right)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// joinReferences finds the field whose source/references pair links the
// record set's already-assembled operand with the given source node, and
// returns the pair oriented so the right reference points at that node.
func (c *compiler) joinReferences(rs *structure.RecordSet, rightUID string) (structure.Source, structure.Source, bool) {
	for _, field := range rs.Fields {
		if field.Source.IsEmpty() || field.References.IsEmpty() {
			continue
		}
		if node, err := c.sourceNode(field.References); err == nil && node.UID() == rightUID {
			return field.Source, field.References, true
		}
		if node, err := c.sourceNode(field.Source); err == nil && node.UID() == rightUID {
			return field.References, field.Source, true
		}
	}
	return structure.Source{}, structure.Source{}, false
}

// sourceNode resolves a reference to the structural node that provides its
// table: the distribution itself, or the record set owning a referenced
// field.
func (c *compiler) sourceNode(ref structure.Source) (structure.Node, error) {
	if ref.Column != "" {
		if n, ok := c.structure.Node(ref.Node + "/" + ref.Column); ok {
			if field, isField := n.(*structure.Field); isField {
				return field.RecordSet(), nil
			}
		}
	}
	n, ok := c.structure.Node(ref.Node)
	if !ok {
		return nil, fmt.Errorf("internal error: reference %s survived validation but resolves to nothing", ref)
	}
	if field, isField := n.(*structure.Field); isField {
		return field.RecordSet(), nil
	}
	return n, nil
}

// tableSource produces the operation materializing the given node's table.
func (c *compiler) tableSource(node structure.Node) (Operation, error) {
	switch n := node.(type) {
	case *structure.FileObject:
		return c.fileObjectTable(n)
	case *structure.FileSet:
		return c.fileSetTable(n)
	case *structure.RecordSet:
		return c.compileRecordSet(n)
	default:
		return nil, fmt.Errorf("internal error: node %q of type %T cannot provide a table", node.UID(), node)
	}
}

func (c *compiler) fileObjectTable(fo *structure.FileObject) (Operation, error) {
	if len(fo.ContainedIn) > 0 {
		extract, err := c.containerExtraction(fo.ContainedIn[0])
		if err != nil {
			return nil, err
		}
		return c.add(&Read{
			base:        base{kind: "Read", node: fo},
			fileObject:  fo,
			inContainer: true,
		}, extract)
	}
	download, err := c.add(&Download{
		base:       base{kind: "Download", node: fo},
		fileObject: fo,
		fetcher:    c.opts.Fetcher,
		baseDir:    c.opts.BaseDir,
		cacheDir:   c.opts.CacheDir,
	})
	if err != nil {
		return nil, err
	}
	return c.add(&Read{
		base:       base{kind: "Read", node: fo},
		fileObject: fo,
	}, download)
}

func (c *compiler) fileSetTable(fs *structure.FileSet) (Operation, error) {
	filter := &FilterFiles{
		base:    base{kind: "FilterFiles", node: fs},
		fileSet: fs,
		root:    c.opts.BaseDir,
	}
	// Without a container the pattern selects local files next to the
	// document, and the filter runs without an upstream extraction.
	var filterInputs []Operation
	if len(fs.ContainedIn) > 0 {
		extract, err := c.containerExtraction(fs.ContainedIn[0])
		if err != nil {
			return nil, err
		}
		filterInputs = append(filterInputs, extract)
	}
	filterOp, err := c.add(filter, filterInputs...)
	if err != nil {
		return nil, err
	}
	return c.add(&Concatenate{
		base:    base{kind: "Concatenate", node: fs},
		fileSet: fs,
	}, filterOp)
}

// containerExtraction wires Download and Extract for an archive container and
// returns the extraction operation.
func (c *compiler) containerExtraction(containerUID string) (Operation, error) {
	node, ok := c.structure.Node(containerUID)
	if !ok {
		return nil, fmt.Errorf("internal error: container %q survived validation but resolves to nothing", containerUID)
	}
	archive, ok := node.(*structure.FileObject)
	if !ok {
		return nil, fmt.Errorf("container %q is not a file object and cannot be extracted", containerUID)
	}
	download, err := c.add(&Download{
		base:       base{kind: "Download", node: archive},
		fileObject: archive,
		fetcher:    c.opts.Fetcher,
		baseDir:    c.opts.BaseDir,
		cacheDir:   c.opts.CacheDir,
	})
	if err != nil {
		return nil, err
	}
	return c.add(&Extract{
		base:       base{kind: "Extract", node: archive},
		fileObject: archive,
		cacheDir:   c.opts.CacheDir,
	}, download)
}

package structure

import (
	"github.com/PGijsbers/croissant/internal/issues"
)

// Node is one typed vertex of the structure graph. Nodes are built once by
// the builder and never mutate afterwards; the shared issue collector is the
// only mutable state they touch.
type Node interface {
	// UID is the node's unique identifier within the graph.
	UID() string
	// Name is the node's declared name, possibly empty.
	Name() string
	// Context localizes the node for issue breadcrumbs.
	Context() issues.Context
	// Check validates the node's own properties, appending issues instead of
	// failing.
	Check()
}

// baseNode carries the identity and plumbing every variant shares.
type baseNode struct {
	graph  *Graph
	issues *issues.Issues
	ctx    issues.Context
	uid    string
	name   string
}

func (n *baseNode) UID() string             { return n.uid }
func (n *baseNode) Name() string            { return n.name }
func (n *baseNode) Context() issues.Context { return n.ctx }

func (n *baseNode) addError(format string, args ...any) {
	n.issues.AddError(n.ctx, format, args...)
}

func (n *baseNode) addWarning(format string, args ...any) {
	n.issues.AddWarning(n.ctx, format, args...)
}

// property pairs a canonical property name with its value on the node.
type property struct {
	name  string
	value string
}

// assertHasMandatoryProperties appends one error per missing property.
func (n *baseNode) assertHasMandatoryProperties(props ...property) {
	for _, p := range props {
		if p.value == "" {
			n.addError("Property %q is mandatory, but does not exist.", p.name)
		}
	}
}

// assertHasOptionalProperties appends one warning per missing property.
func (n *baseNode) assertHasOptionalProperties(props ...property) {
	for _, p := range props {
		if p.value == "" {
			n.addWarning("Property %q is recommended, but does not exist.", p.name)
		}
	}
}

package structure

import (
	"github.com/PGijsbers/croissant/internal/issues"
)

// Graph is the validated structure graph: an arena of nodes indexed by uid,
// with reference edges stored as uid lists. Nodes never own each other, which
// keeps the graph acyclic-by-construction on the containment side; reference
// edges are cycle-checked by the builder.
type Graph struct {
	issues   *issues.Issues
	nodes    map[string]Node
	order    []string
	preds    map[string][]string
	metadata *Metadata
}

// NewGraph returns an empty graph hooked to the given issue collector.
func NewGraph(iss *issues.Issues) *Graph {
	return &Graph{
		issues: iss,
		nodes:  make(map[string]Node),
		preds:  make(map[string][]string),
	}
}

// Issues returns the collector shared by all nodes of this graph.
func (g *Graph) Issues() *issues.Issues {
	return g.issues
}

// Metadata returns the dataset root node.
func (g *Graph) Metadata() *Metadata {
	return g.metadata
}

// Node looks a node up by uid.
func (g *Graph) Node(uid string) (Node, bool) {
	n, ok := g.nodes[uid]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, uid := range g.order {
		out = append(out, g.nodes[uid])
	}
	return out
}

// RecordSet looks up a record set node by name.
func (g *Graph) RecordSet(name string) (*RecordSet, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	rs, ok := n.(*RecordSet)
	return rs, ok
}

// AddEdge records a reference edge from one uid to another. Both ends must
// already exist in the arena.
func (g *Graph) AddEdge(fromUID, toUID string) {
	g.preds[toUID] = append(g.preds[toUID], fromUID)
}

// Predecessors returns the nodes the given uid references, in the order the
// edges were added.
func (g *Graph) Predecessors(uid string) []Node {
	var out []Node
	for _, pred := range g.preds[uid] {
		if n, ok := g.nodes[pred]; ok {
			out = append(out, n)
		}
	}
	return out
}

// addNode registers a node in the arena. A duplicate uid is an issue on the
// incoming node, and the original is kept.
func (g *Graph) addNode(n Node) {
	uid := n.UID()
	if _, exists := g.nodes[uid]; exists {
		g.issues.AddError(n.Context(), "Duplicate node uid %q.", uid)
		return
	}
	g.nodes[uid] = n
	g.order = append(g.order, uid)
}

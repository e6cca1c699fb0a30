// Package dag implements a minimal directed acyclic graph keyed by string
// IDs, with cycle detection and topological ordering. It is shared by the
// structure-graph builder (containment cycle checks) and the operation-graph
// compiler (execution ordering).
package dag

import (
	"fmt"
	"sync"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the maps during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order remembers insertion order so topological sorting is stable.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to enforce
// interaction with the graph via the public API (using string IDs), not by
// direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is
// returned if either node does not exist or if the edge would create a
// self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the IDs of the nodes the given node depends on, in
// insertion order of the graph.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	var deps []string
	for _, candidate := range g.order {
		if _, ok := n.deps[candidate]; ok {
			deps = append(deps, candidate)
		}
	}
	return deps, nil
}

// DetectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		visiting[n.id] = true
		for _, dep := range n.deps {
			if visiting[dep.id] {
				return fmt.Errorf("cycle detected involving '%s'", dep.id)
			}
			if !visited[dep.id] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, n.id)
		visited[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if !visited[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopologicalOrder returns the node IDs in an order where every node appears
// after all of its dependencies (Kahn's algorithm). The ready queue is kept
// in insertion order, which makes runs reproducible without promising a
// unique order. An error is returned if the graph contains a cycle.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for _, id := range g.order {
		pending[id] = len(g.nodes[id].deps)
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, id)
		// Walk dependents in insertion order for stability.
		n := g.nodes[id]
		for _, candidate := range g.order {
			if _, ok := n.dependents[candidate]; !ok {
				continue
			}
			pending[candidate]--
			if pending[candidate] == 0 {
				ready = append(ready, candidate)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, fmt.Errorf("cycle detected: ordered %d of %d nodes", len(sorted), len(g.nodes))
	}
	return sorted, nil
}

package graph

import (
	"slices"
)

// Kind classifies an edge by the relation list it came from.
type Kind string

// Edge kinds, matching the relation list names in the input file.
const (
	KindPrerequisite Kind = "pre"
	KindCorequisite  Kind = "co"
	KindSuggested    Kind = "sug"
	KindExclusion    Kind = "excl"
)

// Kinds lists all edge kinds in their canonical order.
var Kinds = []Kind{KindPrerequisite, KindCorequisite, KindSuggested, KindExclusion}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Blocking reports whether the relation must be satisfied before or with
// the dependent module. Blocking edges are subject to the acyclicity check;
// suggested and exclusion edges are advisory.
func (k Kind) Blocking() bool {
	return k == KindPrerequisite || k == KindCorequisite
}

// Node is a module in the normalized graph. The ID namespaces the module
// name by its programme ("CS/Algorithms") since names are only unique
// within a programme.
type Node struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Programme string `json:"programme" bson:"programme"`
	Year      int    `json:"year" bson:"year"` // zero-based year index
	Required  bool   `json:"required,omitempty" bson:"required,omitempty"`
}

// Edge is a directed relation between two modules. For every kind the edge
// points from the listed module to the module declaring the list, so a
// prerequisite edge reads "From must come before To".
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind Kind   `json:"kind" bson:"kind"`
}

// Graph is a validated directed multigraph of modules. Nodes keep insertion
// order and edges keep construction order, so two builds of the same input
// produce identical serializations.
//
// Graph is not safe for concurrent mutation; builds are independent and a
// built graph is only read afterwards.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(e Edge) error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// RemoveEdge removes the first edge matching from, to, and kind, if any.
func (g *Graph) RemoveEdge(from, to string, kind Kind) {
	for i, e := range g.edges {
		if e.From == from && e.To == to && e.Kind == kind {
			g.edges = slices.Delete(g.edges, i, i+1)
			return
		}
	}
}

// RemoveNode removes a node and every edge touching it.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == id || e.To == id })
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in construction order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesOfKind returns the edges with the given kind, in construction order.
func (g *Graph) EdgesOfKind(kind Kind) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		n := *g.nodes[id]
		c.nodes[id] = &n
		c.order = append(c.order, id)
	}
	c.edges = slices.Clone(g.edges)
	return c
}

// adjacency returns a From→To adjacency list restricted to edges for which
// include returns true. Used by the cycle check and the transforms.
func (g *Graph) adjacency(include func(Edge) bool) map[string][]string {
	adj := make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		if include(e) {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	return adj
}

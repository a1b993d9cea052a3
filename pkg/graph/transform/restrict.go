package transform

import (
	"fmt"

	"github.com/modgraph/modgraph/pkg/graph"
)

// RestrictToModules trims the graph to the named modules and everything
// they transitively relate to (their prerequisites, corequisites,
// suggestions, and exclusions, recursively). Names match either the bare
// module name or the full programme/name ID; a name matching nothing is an
// error.
func RestrictToModules(g *graph.Graph, names []string) error {
	keep := make(map[string]bool)
	var roots []string

	for _, name := range names {
		matched := false
		for _, n := range g.Nodes() {
			if n.ID == name || n.Name == name {
				roots = append(roots, n.ID)
				matched = true
			}
		}
		if !matched {
			return fmt.Errorf("module %q is not in the graph", name)
		}
	}

	// Walk relation edges backwards: an edge points from the listed module
	// to the declarer, so requirements of a kept module are found upstream.
	reverse := make(map[string][]string)
	for _, e := range g.Edges() {
		reverse[e.To] = append(reverse[e.To], e.From)
	}

	stack := roots
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[id] {
			continue
		}
		keep[id] = true
		stack = append(stack, reverse[id]...)
	}

	for _, n := range g.Nodes() {
		if !keep[n.ID] {
			g.RemoveNode(n.ID)
		}
	}
	return nil
}

// RemoveKinds drops every edge of the given kinds. Returns the number of
// edges removed.
func RemoveKinds(g *graph.Graph, kinds ...graph.Kind) int {
	drop := make(map[graph.Kind]bool, len(kinds))
	for _, k := range kinds {
		drop[k] = true
	}

	removed := 0
	for _, e := range g.Edges() {
		if drop[e.Kind] {
			g.RemoveEdge(e.From, e.To, e.Kind)
			removed++
		}
	}
	return removed
}

// RemoveRequired drops modules flagged required in their programme, along
// with their edges. Returns the number of nodes removed.
func RemoveRequired(g *graph.Graph) int {
	removed := 0
	for _, n := range g.Nodes() {
		if n.Required {
			g.RemoveNode(n.ID)
			removed++
		}
	}
	return removed
}

// RemoveOrphans drops modules that take part in no relation at all.
// Returns the number of nodes removed.
func RemoveOrphans(g *graph.Graph) int {
	connected := make(map[string]bool)
	for _, e := range g.Edges() {
		connected[e.From] = true
		connected[e.To] = true
	}

	removed := 0
	for _, n := range g.Nodes() {
		if !connected[n.ID] {
			g.RemoveNode(n.ID)
			removed++
		}
	}
	return removed
}

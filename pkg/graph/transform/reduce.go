package transform

import (
	"github.com/modgraph/modgraph/pkg/graph"
)

// ReduceTransitive removes prerequisite edges that are implied by a longer
// prerequisite chain, so "Intro -> Advanced" disappears when
// "Intro -> Core -> Advanced" already forces the ordering. Returns the
// number of edges removed.
//
// The prerequisite subgraph is acyclic after a successful build, so an edge
// is redundant exactly when its target stays reachable without it.
func ReduceTransitive(g *graph.Graph) int {
	pre := g.EdgesOfKind(graph.KindPrerequisite)

	adj := make(map[string][]string, len(pre))
	for _, e := range pre {
		adj[e.From] = append(adj[e.From], e.To)
	}

	removed := 0
	for _, e := range pre {
		if reachableWithout(adj, e.From, e.To) {
			g.RemoveEdge(e.From, e.To, graph.KindPrerequisite)
			adj[e.From] = deleteFirst(adj[e.From], e.To)
			removed++
		}
	}
	return removed
}

// reachableWithout reports whether to is reachable from from in adj while
// ignoring the direct from→to edge.
func reachableWithout(adj map[string][]string, from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{}
	for _, next := range adj[from] {
		if next == to {
			continue // skip the direct edge, once
		}
		stack = append(stack, next)
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, adj[cur]...)
	}
	return false
}

func deleteFirst(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// DedupExclusions keeps one exclusion edge per unordered module pair, since
// "A excludes B" and "B excludes A" say the same thing twice. The first
// edge in construction order survives. Returns the number removed.
func DedupExclusions(g *graph.Graph) int {
	type pair struct{ a, b string }
	seen := make(map[pair]bool)

	removed := 0
	for _, e := range g.EdgesOfKind(graph.KindExclusion) {
		key := pair{e.From, e.To}
		if e.To < e.From {
			key = pair{e.To, e.From}
		}
		if seen[key] {
			g.RemoveEdge(e.From, e.To, graph.KindExclusion)
			removed++
			continue
		}
		seen[key] = true
	}
	return removed
}

package render

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/modgraph/modgraph/pkg/graph"
)

// Rank directions accepted by [Options.RankDir].
const (
	RankRL = "RL" // prerequisites flow right to left (default)
	RankBT = "BT" // prerequisites flow bottom to top
	RankLR = "LR"
	RankTB = "TB"
)

// DefaultRankDir is used when Options.RankDir is empty.
const DefaultRankDir = RankRL

var validRankDirs = []string{RankRL, RankBT, RankLR, RankTB}

// ValidateRankDir checks that dir is a known rank direction.
func ValidateRankDir(dir string) error {
	if dir == "" || slices.Contains(validRankDirs, dir) {
		return nil
	}
	return fmt.Errorf("invalid rankdir: %q (must be one of: RL, BT, LR, TB)", dir)
}

// yearColours fills module boxes by year; years past the table wrap around.
var yearColours = []string{"snow", "slategray1", "slategray2", "slategray3"}

// Per-kind edge styling.
var (
	edgeColour = map[graph.Kind]string{
		graph.KindPrerequisite: "red3",
		graph.KindCorequisite:  "purple3",
		graph.KindSuggested:    "steelblue",
		graph.KindExclusion:    "red",
	}
	arrowHead = map[graph.Kind]string{
		graph.KindPrerequisite: "open",
		graph.KindCorequisite:  "empty",
		graph.KindSuggested:    "halfopen",
		graph.KindExclusion:    "none",
	}
	edgeStyle = map[graph.Kind]string{
		graph.KindPrerequisite: "solid",
		graph.KindCorequisite:  "solid",
		graph.KindSuggested:    "dashed",
		graph.KindExclusion:    "bold",
	}
)

// Options configures DOT generation.
type Options struct {
	// RankDir sets the Graphviz rank direction. Defaults to RL so early
	// modules end up on the right, reading towards later years.
	RankDir string
}

// ToDOT converts a module graph to Graphviz DOT. Nodes are filled by year,
// modules of the same programme year share a rank, and edges carry the
// colour, arrowhead, and line style of their relation kind.
func ToDOT(g *graph.Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = DefaultRankDir
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Modules {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		colour := yearColours[n.Year%len(yearColours)]
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s, tooltip=%q];\n",
			n.ID, n.Name, colour, fmt.Sprintf("%s %d %s", n.Programme, n.Year+1, n.Name))
	}

	buf.WriteString("\n")
	for _, rank := range sameYearRanks(g) {
		buf.WriteString("  {rank=same")
		for _, id := range rank {
			fmt.Fprintf(&buf, " %q", id)
		}
		buf.WriteString("}\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [color=%s, arrowhead=%s, style=%s];\n",
			e.From, e.To, edgeColour[e.Kind], arrowHead[e.Kind], edgeStyle[e.Kind])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// sameYearRanks groups node IDs by programme and year, in node order, so
// each programme year renders as one rank row. Single-node groups are
// dropped since rank=same with one member is a no-op.
func sameYearRanks(g *graph.Graph) [][]string {
	type key struct {
		programme string
		year      int
	}
	groups := make(map[key][]string)
	var order []key

	for _, n := range g.Nodes() {
		k := key{n.Programme, n.Year}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], n.ID)
	}

	var ranks [][]string
	for _, k := range order {
		if len(groups[k]) > 1 {
			ranks = append(ranks, groups[k])
		}
	}
	return ranks
}

package render

import (
	"strings"
	"testing"

	"github.com/modgraph/modgraph/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{ID: "CS/Intro", Name: "Intro", Programme: "CS", Year: 0},
		{ID: "CS/Maths", Name: "Maths", Programme: "CS", Year: 0},
		{ID: "CS/Algo", Name: "Algo", Programme: "CS", Year: 1},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	edges := []graph.Edge{
		{From: "CS/Intro", To: "CS/Algo", Kind: graph.KindPrerequisite},
		{From: "CS/Maths", To: "CS/Algo", Kind: graph.KindSuggested},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		"digraph Modules {",
		"rankdir=RL;",
		`"CS/Intro" [label="Intro", fillcolor=snow, tooltip="CS 1 Intro"];`,
		`"CS/Algo" [label="Algo", fillcolor=slategray1, tooltip="CS 2 Algo"];`,
		`{rank=same "CS/Intro" "CS/Maths"}`,
		`"CS/Intro" -> "CS/Algo" [color=red3, arrowhead=open, style=solid];`,
		`"CS/Maths" -> "CS/Algo" [color=steelblue, arrowhead=halfopen, style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_RankDir(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{RankDir: RankBT})
	if !strings.Contains(dot, "rankdir=BT;") {
		t.Errorf("DOT output missing rankdir=BT\n%s", dot)
	}
}

func TestToDOT_SingleNodeRankOmitted(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "CS/Only", Name: "Only", Programme: "CS", Year: 0})

	dot := ToDOT(g, Options{})
	if strings.Contains(dot, "rank=same") {
		t.Errorf("single-node year should not emit rank=same\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	a := ToDOT(testGraph(t), Options{})
	b := ToDOT(testGraph(t), Options{})
	if a != b {
		t.Error("ToDOT output differs between identical calls")
	}
}

func TestToDOT_YearColoursWrap(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "CS/Late", Name: "Late", Programme: "CS", Year: 5})

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, "fillcolor=slategray1") {
		t.Errorf("year 6 should wrap to slategray1\n%s", dot)
	}
}

func TestValidateRankDir(t *testing.T) {
	for _, dir := range []string{"", "RL", "BT", "LR", "TB"} {
		if err := ValidateRankDir(dir); err != nil {
			t.Errorf("ValidateRankDir(%q) = %v, want nil", dir, err)
		}
	}
	if err := ValidateRankDir("diagonal"); err == nil {
		t.Error("ValidateRankDir(diagonal) should fail")
	}
}

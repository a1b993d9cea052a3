package graph

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGraph_AddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{ID: "CS/A", Name: "A", Programme: "CS"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "CS/A"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty AddNode error = %v, want ErrInvalidNodeID", err)
	}
}

func TestGraph_AddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "a", To: "b", Kind: KindPrerequisite}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "b", Kind: KindPrerequisite}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("error = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x", Kind: KindPrerequisite}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("error = %v, want ErrUnknownTargetNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "b", Kind: Kind("maybe")}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("error = %v, want ErrInvalidKind", err)
	}
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b", Kind: KindPrerequisite})
	g.AddEdge(Edge{From: "a", To: "b", Kind: KindSuggested})

	g.RemoveEdge("a", "b", KindPrerequisite)

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.Edges()[0].Kind != KindSuggested {
		t.Errorf("surviving edge kind = %s, want sug", g.Edges()[0].Kind)
	}
}

func TestGraph_RemoveNode(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "c"})
	g.AddEdge(Edge{From: "a", To: "b", Kind: KindPrerequisite})
	g.AddEdge(Edge{From: "b", To: "c", Kind: KindPrerequisite})

	g.RemoveNode("b")

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 (edges touching b removed)", g.EdgeCount())
	}
}

func TestGraph_NodesKeepInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"z", "a", "m"} {
		g.AddNode(Node{ID: id})
	}

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nodes() order = %v, want %v", got, want)
		}
	}
}

func TestGraph_Clone(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b", Kind: KindPrerequisite})

	c := g.Clone()
	c.RemoveNode("a")

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "CS/A", Name: "A", Programme: "CS", Year: 0, Required: true})
	g.AddNode(Node{ID: "CS/B", Name: "B", Programme: "CS", Year: 1})
	g.AddEdge(Edge{From: "CS/A", To: "CS/B", Kind: KindPrerequisite})
	g.AddEdge(Edge{From: "CS/A", To: "CS/B", Kind: KindSuggested})

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	again, err := MarshalGraph(back)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("round trip changed the serialization")
	}

	n, ok := back.Node("CS/A")
	if !ok {
		t.Fatal("CS/A missing after round trip")
	}
	if !n.Required || n.Programme != "CS" {
		t.Errorf("node = %+v, lost fields in round trip", n)
	}
}

func TestReadGraph_RejectsBadEdges(t *testing.T) {
	input := `{
		"nodes": [{"id": "a"}],
		"edges": [{"from": "a", "to": "ghost", "kind": "pre"}]
	}`

	if _, err := ReadGraph(strings.NewReader(input)); err == nil {
		t.Error("ReadGraph should reject an edge to a missing node")
	}
}

package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// graphJSON is the wire format: a plain node-link structure consumed by the
// renderer and by external tools.
//
//	{
//	  "nodes": [{"id": "CS/M1", "name": "M1", "programme": "CS", "year": 0}],
//	  "edges": [{"from": "CS/M1", "to": "CS/M2", "kind": "pre"}]
//	}
type graphJSON struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// MarshalGraph converts a graph to indented JSON bytes. Nodes and edges are
// emitted in their graph order, which Build makes deterministic.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	out := graphJSON{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, *n)
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r, re-validating node and edge
// constraints on the way in.
func ReadGraph(r io.Reader) (*Graph, error) {
	var data graphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New()
	for _, n := range data.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

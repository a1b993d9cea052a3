package graph

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/modgraph/modgraph/pkg/course"
)

func mustCatalog(t *testing.T, input string) *course.Catalog {
	t.Helper()
	cat, err := course.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return cat
}

func TestBuild_Simple(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[{"name": "M1"}, {"name": "M2", "pre": ["M1"]}]]}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	for _, id := range []string{"CS/M1", "CS/M2"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("node %s missing", id)
		}
	}

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", len(edges))
	}
	want := Edge{From: "CS/M1", To: "CS/M2", Kind: KindPrerequisite}
	if edges[0] != want {
		t.Errorf("edge = %+v, want %+v", edges[0], want)
	}
}

func TestBuild_AllKinds(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[
		{"name": "A"},
		{"name": "B", "pre": ["A"], "co": ["C"], "sug": ["A"], "excl": ["D"]},
		{"name": "C"},
		{"name": "D"}
	]]}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, kind := range Kinds {
		if n := len(g.EdgesOfKind(kind)); n != 1 {
			t.Errorf("EdgesOfKind(%s) = %d, want 1", kind, n)
		}
	}
}

func TestBuild_DanglingReference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
	}{
		{name: "Pre", input: `{"CS": [[{"name": "A", "pre": ["Ghost"]}]]}`, kind: KindPrerequisite},
		{name: "Co", input: `{"CS": [[{"name": "A", "co": ["Ghost"]}]]}`, kind: KindCorequisite},
		{name: "Sug", input: `{"CS": [[{"name": "A", "sug": ["Ghost"]}]]}`, kind: KindSuggested},
		{name: "Excl", input: `{"CS": [[{"name": "A", "excl": ["Ghost"]}]]}`, kind: KindExclusion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustCatalog(t, tt.input), Options{})
			var dangling *DanglingReferenceError
			if !errors.As(err, &dangling) {
				t.Fatalf("Build error = %v, want DanglingReferenceError", err)
			}
			if dangling.Module != "CS/A" || dangling.Target != "Ghost" || dangling.Kind != tt.kind {
				t.Errorf("error = %+v, want module CS/A target Ghost kind %s", dangling, tt.kind)
			}
		})
	}
}

func TestBuild_DuplicateModule(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[{"name": "A"}], [{"name": "A"}]]}`)

	_, err := Build(cat, Options{})
	var dup *DuplicateModuleError
	if !errors.As(err, &dup) {
		t.Fatalf("Build error = %v, want DuplicateModuleError", err)
	}
	if dup.Module != "A" || dup.Programme != "CS" {
		t.Errorf("error = %+v, want module A in programme CS", dup)
	}
}

func TestBuild_CrossYearCorequisite(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [
		[{"name": "A", "co": ["B"]}],
		[{"name": "B"}]
	]}`)

	_, err := Build(cat, Options{})
	var cross *CrossYearCorequisiteError
	if !errors.As(err, &cross) {
		t.Fatalf("Build error = %v, want CrossYearCorequisiteError", err)
	}
	if cross.From != "CS/B" || cross.To != "CS/A" {
		t.Errorf("error endpoints = %s, %s; want CS/B, CS/A", cross.From, cross.To)
	}
}

func TestBuild_SameYearCorequisite(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[{"name": "A", "co": ["B"]}, {"name": "B"}]]}`)

	if _, err := Build(cat, Options{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuild_CycleDetected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "MutualPre",
			input: `{"CS": [[{"name": "A", "pre": ["B"]}, {"name": "B", "pre": ["A"]}]]}`,
		},
		{
			name:  "SelfPre",
			input: `{"CS": [[{"name": "A", "pre": ["A"]}]]}`,
		},
		{
			name: "PreCoMix",
			input: `{"CS": [[
				{"name": "A", "pre": ["C"]},
				{"name": "B", "co": ["A"]},
				{"name": "C", "pre": ["B"]}
			]]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mustCatalog(t, tt.input), Options{})
			var cyc *CycleError
			if !errors.As(err, &cyc) {
				t.Fatalf("Build error = %v, want CycleError", err)
			}
			if len(cyc.Modules) < 2 {
				t.Errorf("witness = %v, want at least a closed pair", cyc.Modules)
			}
			if cyc.Modules[0] != cyc.Modules[len(cyc.Modules)-1] {
				t.Errorf("witness %v does not close on itself", cyc.Modules)
			}
		})
	}
}

func TestBuild_SuggestedCycleAllowed(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[
		{"name": "A", "sug": ["B"]},
		{"name": "B", "sug": ["A"]}
	]]}`)

	if _, err := Build(cat, Options{}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	_, err := Build(cat, Options{Strict: Strictness{SuggestedInCycles: true}})
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Errorf("strict Build error = %v, want CycleError", err)
	}
}

func TestBuild_UnknownProgramme(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[{"name": "A"}]]}`)

	_, err := Build(cat, Options{Programme: "History"})
	var unknown *UnknownProgrammeError
	if !errors.As(err, &unknown) {
		t.Fatalf("Build error = %v, want UnknownProgrammeError", err)
	}
	if unknown.Programme != "History" {
		t.Errorf("programme = %q, want History", unknown.Programme)
	}
}

func TestBuild_ProgrammeFilter(t *testing.T) {
	cat := mustCatalog(t, `{
		"CS": [[{"name": "M1"}, {"name": "M2", "pre": ["M1"]}]],
		"Maths": [[{"name": "Calc"}]]
	}`)

	g, err := Build(cat, Options{Programme: "CS"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	for _, n := range g.Nodes() {
		if n.Programme != "CS" {
			t.Errorf("node %s belongs to %s, want CS only", n.ID, n.Programme)
		}
	}
	for _, e := range g.Edges() {
		if !strings.HasPrefix(e.From, "CS/") || !strings.HasPrefix(e.To, "CS/") {
			t.Errorf("edge %+v references a module outside CS", e)
		}
	}
}

func TestBuild_FilterScopesResolution(t *testing.T) {
	// B's prerequisite lives in another programme, so filtering to CS makes
	// it dangling rather than silently dropped.
	cat := mustCatalog(t, `{
		"CS": [[{"name": "B", "pre": ["A"]}]],
		"Maths": [[{"name": "A"}]]
	}`)

	if _, err := Build(cat, Options{}); err != nil {
		t.Fatalf("union Build: %v", err)
	}

	_, err := Build(cat, Options{Programme: "CS"})
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("filtered Build error = %v, want DanglingReferenceError", err)
	}
}

func TestBuild_CrossProgrammeResolution(t *testing.T) {
	// A unique bare name resolves across programmes; a name declared in two
	// other programmes is ambiguous.
	cat := mustCatalog(t, `{
		"CS": [[{"name": "Prog", "pre": ["Calc"]}]],
		"Maths": [[{"name": "Calc"}]]
	}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := Edge{From: "Maths/Calc", To: "CS/Prog", Kind: KindPrerequisite}
	if edges := g.Edges(); len(edges) != 1 || edges[0] != want {
		t.Errorf("edges = %+v, want [%+v]", g.Edges(), want)
	}

	ambiguous := mustCatalog(t, `{
		"CS": [[{"name": "Prog", "pre": ["Calc"]}]],
		"Maths": [[{"name": "Calc"}]],
		"Physics": [[{"name": "Calc"}]]
	}`)
	_, err = Build(ambiguous, Options{})
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Build error = %v, want DanglingReferenceError", err)
	}
	if !dangling.Ambiguous {
		t.Errorf("error = %+v, want Ambiguous", dangling)
	}
}

func TestBuild_OwnProgrammeWinsResolution(t *testing.T) {
	cat := mustCatalog(t, `{
		"CS": [[{"name": "Calc"}, {"name": "Prog", "pre": ["Calc"]}]],
		"Maths": [[{"name": "Calc"}]]
	}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range g.Edges() {
		if e.From != "CS/Calc" {
			t.Errorf("edge from %s, want CS/Calc (own programme wins)", e.From)
		}
	}
}

func TestBuild_GlobalNames(t *testing.T) {
	cat := mustCatalog(t, `{
		"CS": [[{"name": "Calc"}]],
		"Maths": [[{"name": "Calc"}]]
	}`)

	if _, err := Build(cat, Options{}); err != nil {
		t.Fatalf("default Build: %v", err)
	}

	_, err := Build(cat, Options{Strict: Strictness{GlobalNames: true}})
	var dup *DuplicateModuleError
	if !errors.As(err, &dup) {
		t.Fatalf("strict Build error = %v, want DuplicateModuleError", err)
	}
	if dup.OtherProgramme == "" {
		t.Errorf("error = %+v, want OtherProgramme set", dup)
	}
}

func TestBuild_EdgeEndpointsInNodeSet(t *testing.T) {
	cat := mustCatalog(t, `{
		"CS": [
			[{"name": "A"}, {"name": "B", "pre": ["A"], "sug": ["C"]}],
			[{"name": "C", "pre": ["A", "B"], "excl": ["D"]}, {"name": "D", "co": ["C"]}]
		]
	}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range g.Edges() {
		if _, ok := g.Node(e.From); !ok {
			t.Errorf("edge %+v: From not in node set", e)
		}
		if _, ok := g.Node(e.To); !ok {
			t.Errorf("edge %+v: To not in node set", e)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	input := `{
		"Maths": [[{"name": "Calc"}, {"name": "Lin"}]],
		"CS": [
			[{"name": "A"}, {"name": "B", "pre": ["A"]}],
			[{"name": "C", "pre": ["A"], "sug": ["Calc"]}]
		]
	}`

	first, err := Build(mustCatalog(t, input), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(mustCatalog(t, input), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, err := MarshalGraph(first)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	b, err := MarshalGraph(second)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two builds of the same input serialize differently")
	}
}

func TestBuild_RequiredFlag(t *testing.T) {
	cat := mustCatalog(t, `{
		"CS": {"years": [[{"name": "A"}, {"name": "B"}]], "required": ["A"]}
	}`)

	g, err := Build(cat, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n, _ := g.Node("CS/A"); !n.Required {
		t.Error("CS/A should be flagged required")
	}
	if n, _ := g.Node("CS/B"); n.Required {
		t.Error("CS/B should not be flagged required")
	}
}

func TestBuild_CaseSensitiveNames(t *testing.T) {
	cat := mustCatalog(t, `{"CS": [[{"name": "algo"}, {"name": "B", "pre": ["Algo"]}]]}`)

	_, err := Build(cat, Options{})
	var dangling *DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Build error = %v, want DanglingReferenceError (names are case-sensitive)", err)
	}
}

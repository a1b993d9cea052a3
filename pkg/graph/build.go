package graph

import (
	"fmt"

	"github.com/modgraph/modgraph/pkg/course"
)

// Strictness holds the optional validation switches. The defaults match the
// original tool: only required relations are cycle-checked, and module names
// need only be unique within their programme.
type Strictness struct {
	// SuggestedInCycles includes sug edges in the acyclicity check.
	SuggestedInCycles bool
	// GlobalNames requires module names to be unique across all programmes.
	GlobalNames bool
}

// Options configures a build.
type Options struct {
	// Programme restricts the graph to a single programme. Empty means the
	// union of all programmes. A name matching no programme is an error.
	Programme string

	Strict Strictness
}

// moduleRef locates a module inside the catalog scope.
type moduleRef struct {
	programme *course.Programme
	module    *course.Module
	year      int
}

func (r moduleRef) id() string { return r.programme.Name + "/" + r.module.Name }

// Build transforms the catalog into a validated, normalized graph, or
// reports the first violation it finds. It is pure over its input: the
// catalog is only read, and repeated calls with the same input and options
// yield identical node and edge sets.
//
// Validation order follows the data: duplicate names, then reference
// resolution and corequisite year checks module by module, then the
// acyclicity check over the required relations.
func Build(cat *course.Catalog, opts Options) (*Graph, error) {
	scope, err := selectScope(cat, opts.Programme)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(scope, opts.Strict.GlobalNames)
	if err != nil {
		return nil, err
	}

	g := New()
	for _, ref := range index.refs {
		n := Node{
			ID:        ref.id(),
			Name:      ref.module.Name,
			Programme: ref.programme.Name,
			Year:      ref.year,
			Required:  ref.programme.IsRequired(ref.module.Name),
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}

	for _, ref := range index.refs {
		if err := addEdges(g, index, ref); err != nil {
			return nil, err
		}
	}

	if err := checkCycles(g, opts.Strict); err != nil {
		return nil, err
	}
	return g, nil
}

// selectScope returns the programmes to build from.
func selectScope(cat *course.Catalog, filter string) ([]*course.Programme, error) {
	if filter == "" {
		scope := make([]*course.Programme, len(cat.Programmes))
		for i := range cat.Programmes {
			scope[i] = &cat.Programmes[i]
		}
		return scope, nil
	}
	p, ok := cat.Programme(filter)
	if !ok {
		return nil, &UnknownProgrammeError{Programme: filter}
	}
	return []*course.Programme{p}, nil
}

// scopeIndex resolves bare module names within the selected scope.
type scopeIndex struct {
	refs   []moduleRef            // every module in scope, in scope order
	byKey  map[string]moduleRef   // programme/name
	byName map[string][]moduleRef // bare name, across programmes
}

func buildIndex(scope []*course.Programme, globalNames bool) (*scopeIndex, error) {
	idx := &scopeIndex{
		byKey:  make(map[string]moduleRef),
		byName: make(map[string][]moduleRef),
	}
	for _, p := range scope {
		for y := range p.Years {
			for m := range p.Years[y] {
				ref := moduleRef{programme: p, module: &p.Years[y][m], year: y}
				key := ref.id()
				if _, dup := idx.byKey[key]; dup {
					return nil, &DuplicateModuleError{Module: ref.module.Name, Programme: p.Name}
				}
				if globalNames {
					if others := idx.byName[ref.module.Name]; len(others) > 0 {
						return nil, &DuplicateModuleError{
							Module:         ref.module.Name,
							Programme:      p.Name,
							OtherProgramme: others[0].programme.Name,
						}
					}
				}
				idx.byKey[key] = ref
				idx.byName[ref.module.Name] = append(idx.byName[ref.module.Name], ref)
				idx.refs = append(idx.refs, ref)
			}
		}
	}
	return idx, nil
}

// resolve maps a bare name, as written in a relation list of from, to a
// module in scope. The referencing module's own programme wins; otherwise
// the name must be unambiguous across the remaining programmes.
func (idx *scopeIndex) resolve(from moduleRef, name string) (moduleRef, error) {
	if ref, ok := idx.byKey[from.programme.Name+"/"+name]; ok {
		return ref, nil
	}
	candidates := idx.byName[name]
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return moduleRef{}, nil // reported by the caller with kind context
	default:
		return moduleRef{}, fmt.Errorf("ambiguous")
	}
}

// addEdges resolves every relation list entry of ref and appends the
// resulting tagged edges. Edges point from the listed module to the
// declaring module.
func addEdges(g *Graph, idx *scopeIndex, ref moduleRef) error {
	lists := []struct {
		kind    Kind
		entries []string
	}{
		{KindPrerequisite, ref.module.Pre},
		{KindCorequisite, ref.module.Co},
		{KindSuggested, ref.module.Sug},
		{KindExclusion, ref.module.Excl},
	}

	for _, list := range lists {
		for _, name := range list.entries {
			target, err := idx.resolve(ref, name)
			if err != nil {
				return &DanglingReferenceError{Module: ref.id(), Kind: list.kind, Target: name, Ambiguous: true}
			}
			if target.module == nil {
				return &DanglingReferenceError{Module: ref.id(), Kind: list.kind, Target: name}
			}
			if list.kind == KindCorequisite && target.year != ref.year {
				return &CrossYearCorequisiteError{
					From:     target.id(),
					To:       ref.id(),
					FromYear: target.year,
					ToYear:   ref.year,
				}
			}
			if err := g.AddEdge(Edge{From: target.id(), To: ref.id(), Kind: list.kind}); err != nil {
				return fmt.Errorf("add %s edge %s -> %s: %w", list.kind, target.id(), ref.id(), err)
			}
		}
	}
	return nil
}

// checkCycles runs a depth-first search over the blocking (pre ∪ co)
// subgraph, colouring nodes white/gray/black. Hitting a gray node means the
// recursion stack holds a cycle; the stack suffix from that node is the
// witness reported in the error.
func checkCycles(g *Graph, strict Strictness) error {
	adj := g.adjacency(func(e Edge) bool {
		return e.Kind.Blocking() || (strict.SuggestedInCycles && e.Kind == KindSuggested)
	})

	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var stack []string
	var witness []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range adj[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				// Close the cycle from the first stack occurrence of child.
				for i, s := range stack {
					if s == child {
						witness = append(witness, stack[i:]...)
						witness = append(witness, child)
						return true
					}
				}
			}
		}
		color[id] = black
		stack = stack[:len(stack)-1]
		return false
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			if dfs(n.ID) {
				return &CycleError{Modules: witness}
			}
		}
	}
	return nil
}

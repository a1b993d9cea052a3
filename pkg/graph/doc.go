// Package graph turns a course catalog into a validated directed
// multigraph ready for rendering.
//
// # Building
//
// [Build] flattens the selected scope (one programme or the union of all)
// into a name index, resolves every pre/co/sug/excl list entry against it,
// and tags one edge per entry with its relation [Kind]. Validation is
// all-or-nothing: the first dangling reference, duplicate name, cross-year
// corequisite, or requirement cycle aborts the build with a typed error
// naming the offenders. No partially valid graph is ever returned.
//
//	cat, _ := course.Load("modules.json")
//	g, err := graph.Build(cat, graph.Options{Programme: "CS"})
//
// # Invariants
//
//   - every edge endpoint is a node of the graph
//   - corequisite edges join modules of the same year
//   - the pre ∪ co subgraph is acyclic
//   - output order is deterministic for identical input
//
// # Serialization
//
// [MarshalGraph], [WriteGraphFile], and [ReadGraphFile] convert graphs to
// and from a plain node-link JSON format that round-trips exactly.
package graph

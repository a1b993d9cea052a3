// Package pkg provides the core libraries for modgraph module visualization.
//
// # Overview
//
// Modgraph turns a JSON catalog of study programmes into a validated
// requirement graph and renders it with Graphviz. The pkg directory is
// organized into five main areas:
//
//  1. [course] - Catalog parsing (programmes, years, modules, includes)
//  2. [graph] - Graph construction, validation, and serialization
//  3. [render] - DOT generation and Graphviz rendering
//  4. [cache] - Result caching (file, Redis, or disabled)
//  5. [pipeline] - Orchestration (build → transform → render)
//
// # Architecture
//
// The typical data flow through modgraph:
//
//	modules.json
//	     ↓
//	[course] package (parse programmes and years)
//	     ↓
//	[graph] package (validate relations, build the multigraph)
//	     ↓
//	[graph/transform] package (whitelists, hiding, reduction)
//	     ↓
//	[render] package (DOT + Graphviz)
//	     ↓
//	SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
// Build and render a catalog:
//
//	cat, err := course.Load("modules.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := graph.Build(cat, graph.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := render.RenderSVG(ctx, render.ToDOT(g, render.Options{}))
//
// Or let the pipeline handle caching and output formats:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "modules.json",
//	    Formats: []string{"svg"},
//	})
package pkg

// Package pipeline provides the core graph pipeline for modgraph.
//
// This package implements the complete load → build → render pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse the module catalog and validate it into a graph
//  2. Transform: Apply view transforms (whitelist, hiding, reduction)
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "modules.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/cache"
	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the graph pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Build options
	Input             string `json:"input"`                         // Path to the module catalog file
	Programme         string `json:"programme,omitempty"`           // Restrict to one programme
	SuggestedInCycles bool   `json:"suggested_in_cycles,omitempty"` // Treat sug edges as blocking in the cycle check
	GlobalNames       bool   `json:"global_names,omitempty"`        // Require module names unique across programmes
	Refresh           bool   `json:"refresh,omitempty"`             // Bypass cache for fresh results

	// Transform options
	Modules      []string `json:"modules,omitempty"`       // Keep only these modules and their requirements
	HideKinds    []string `json:"hide_kinds,omitempty"`    // Edge kinds to drop from the output
	HideRequired bool     `json:"hide_required,omitempty"` // Drop modules marked required
	HideOrphans  bool     `json:"hide_orphans,omitempty"`  // Drop modules with no remaining edges
	Reduce       bool     `json:"reduce,omitempty"`        // Remove transitively implied prerequisites

	// Render options
	Formats []string `json:"formats,omitempty"`
	RankDir string   `json:"rank_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the validated module graph, before view transforms.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for building the graph.
func (o *Options) ValidateForBuild() error {
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates and sets defaults for transforms and rendering.
func (o *Options) ValidateForRender() error {
	if o.RankDir == "" {
		o.RankDir = render.DefaultRankDir
	}
	if err := render.ValidateRankDir(o.RankDir); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, k := range o.HideKinds {
		if !graph.Kind(k).Valid() {
			return fmt.Errorf("invalid edge kind: %q (must be one of: pre, co, sug, excl)", k)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// buildOptions converts pipeline options to graph build options.
func (o *Options) buildOptions() graph.Options {
	return graph.Options{
		Programme: o.Programme,
		Strict: graph.Strictness{
			SuggestedInCycles: o.SuggestedInCycles,
			GlobalNames:       o.GlobalNames,
		},
	}
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Programme:         o.Programme,
		SuggestedInCycles: o.SuggestedInCycles,
		GlobalNames:       o.GlobalNames,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		RankDir:      o.RankDir,
		Modules:      o.Modules,
		HideKinds:    o.HideKinds,
		HideRequired: o.HideRequired,
		HideOrphans:  o.HideOrphans,
		Reduce:       o.Reduce,
	}
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/cache"
	"github.com/modgraph/modgraph/pkg/course"
	"github.com/modgraph/modgraph/pkg/graph"
	"github.com/modgraph/modgraph/pkg/graph/transform"
	"github.com/modgraph/modgraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → transform → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.BuildHit = buildHit

	// Compute graph hash for cache keys and server responses
	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("built module graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Transform
	workGraph, err := r.PrepareGraph(g, opts)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, workGraph, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo parses and validates the catalog with caching and
// returns cache hit info. The cache key covers the raw input bytes, so any
// edit to the catalog file misses the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, data []byte, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.GraphKey(cache.Hash(data), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, err := graph.ReadGraph(bytes.NewReader(cached))
			if err == nil {
				return g, true, nil // Cache hit
			}
		}
	}

	cat, err := course.Read(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	g, err := graph.Build(cat, opts.buildOptions())
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if graphData, err := graph.MarshalGraph(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, graphData, cache.TTLGraph)
	}

	return g, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, data []byte, opts Options) (*graph.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, data, opts)
	return g, err
}

// PrepareGraph applies the view transforms to a clone of the validated
// graph. The original graph is never modified, so a Result always carries
// the full validated graph alongside the rendered view.
func (r *Runner) PrepareGraph(g *graph.Graph, opts Options) (*graph.Graph, error) {
	work := g.Clone()

	kinds := make([]graph.Kind, 0, len(opts.HideKinds))
	for _, k := range opts.HideKinds {
		kinds = append(kinds, graph.Kind(k))
	}
	if len(kinds) > 0 {
		transform.RemoveKinds(work, kinds...)
	}
	if opts.HideRequired {
		transform.RemoveRequired(work)
	}
	if len(opts.Modules) > 0 {
		if err := transform.RestrictToModules(work, opts.Modules); err != nil {
			return nil, err
		}
	}
	if opts.Reduce {
		transform.ReduceTransitive(work)
	}
	transform.DedupExclusions(work)
	if opts.HideOrphans {
		transform.RemoveOrphans(work)
	}

	if work.NodeCount() != g.NodeCount() || work.EdgeCount() != g.EdgeCount() {
		r.Logger.Debug("transformed graph",
			"nodes", work.NodeCount(),
			"edges", work.EdgeCount(),
			"original_nodes", g.NodeCount(),
			"original_edges", g.EdgeCount())
	}
	return work, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Artifacts are keyed by the transformed graph's content hash, so two
// option sets producing the same view share cached renders.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := r.renderFormats(ctx, g, graphData, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// renderFormats produces every requested format from one DOT conversion.
func (r *Runner) renderFormats(ctx context.Context, g *graph.Graph, graphData []byte, opts Options) (map[string][]byte, error) {
	dot := render.ToDOT(g, render.Options{RankDir: opts.RankDir})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data = graphData
		case FormatSVG:
			data, err = render.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = render.RenderPNG(ctx, dot)
		case FormatPDF:
			data, err = render.RenderPDF(ctx, dot)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

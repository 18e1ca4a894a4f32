package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/cache"
	diagio "github.com/diaglot/diaglot/pkg/io"
	"github.com/diaglot/diaglot/pkg/layout"
	"github.com/diaglot/diaglot/pkg/observability"
	"github.com/diaglot/diaglot/pkg/parser"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, diags, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Diagnostics = diags
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = len(doc.Entities())
	result.Stats.EdgeCount = len(doc.Edges)
	result.CacheInfo.ParseHit = parseHit

	// Compute document hash for cache keys and API responses
	if docData, err := diagio.MarshalDocument(doc); err == nil {
		result.DocHash = cache.Hash(docData)
	}

	r.Logger.Info("parsed document",
		"archetype", doc.Archetype.String(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"diagnostics", len(diags),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(res.Nodes),
		"groups", len(res.Groups),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// docPayload is the cached parse result: the serialized document plus
// its diagnostics, so a cache hit reports the same problems a fresh
// parse would.
type docPayload struct {
	Document    json.RawMessage     `json:"document"`
	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty"`
}

// ParseWithCacheInfo parses with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*ast.Document, []parser.Diagnostic, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DocKey(cache.Hash([]byte(opts.Source)), opts.DocKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var payload docPayload
			if err := json.Unmarshal(data, &payload); err == nil {
				if doc, err := diagio.UnmarshalDocument(payload.Document); err == nil {
					observability.Cache().OnCacheHit(ctx, "doc")
					return doc, payload.Diagnostics, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "doc")
	}

	// Parse
	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Dialect)
	doc, diags, err := Parse(ctx, opts)
	nodeCount := 0
	if doc != nil {
		nodeCount = len(doc.Entities())
	}
	observability.Pipeline().OnParseComplete(ctx, opts.Dialect, nodeCount, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache the result
	if docData, err := diagio.MarshalDocument(doc); err == nil {
		payload := docPayload{Document: docData, Diagnostics: diags}
		if data, err := json.Marshal(payload); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDoc)
			observability.Cache().OnCacheSet(ctx, "doc", len(data))
		}
	}

	return doc, diags, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and
// discards the diagnostics and cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*ast.Document, error) {
	doc, _, _, err := r.ParseWithCacheInfo(ctx, opts)
	return doc, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, doc *ast.Document, opts Options) (*layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	// Compute cache key
	docData, _ := diagio.MarshalDocument(doc)
	docHash := cache.Hash(docData)
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts(doc.Meta("direction")))

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := diagio.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Generate layout
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, doc.Archetype.String(), len(doc.Entities()))
	res, err := GenerateLayout(ctx, doc, opts)
	observability.Pipeline().OnLayoutComplete(ctx, doc.Archetype.String(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := diagio.MarshalLayout(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return res, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, doc *ast.Document, opts Options) (*layout.Result, error) {
	res, _, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, doc *ast.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := diagio.MarshalLayout(res)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderStart(ctx, format)
	}
	rendered, err := RenderFromLayout(res, doc, opts)
	for _, format := range opts.Formats {
		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	}
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, doc *ast.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, doc, opts)
	return artifacts, err
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

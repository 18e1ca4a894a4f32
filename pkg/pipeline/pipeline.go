// Package pipeline provides the core compile pipeline for Diaglot.
//
// This package implements the complete parse → layout → render pipeline
// that can be used by CLI, API, and worker components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Tokenize the source, detect its dialect, build the
//     document and classify its archetype
//  2. Layout: Compute positions for every node, group and edge
//  3. Render: Generate output in various formats (SVG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  src,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	doc, err := runner.Parse(ctx, opts)
//
//	// Layout with existing document
//	res, err := runner.GenerateLayout(ctx, doc, opts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, res, doc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/cache"
	"github.com/diaglot/diaglot/pkg/errors"
	"github.com/diaglot/diaglot/pkg/layout"
	"github.com/diaglot/diaglot/pkg/parser"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the compile pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source  string `json:"source"`
	Dialect string `json:"dialect,omitempty"` // empty or "auto" = detect
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Measurer layout.Measurer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed diagram.
	Document *ast.Document

	// Diagnostics are the parser's recoverable complaints. A non-empty
	// list never prevents layout or render.
	Diagnostics []parser.Diagnostic

	// DocHash is the content hash of the serialized document.
	DocHash string

	// Layout contains the positioned geometry.
	Layout *layout.Result

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
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed document came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if err := errors.ValidateSource(o.Source); err != nil {
		return err
	}
	if err := errors.ValidateDialect(o.Dialect); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Measurer == nil {
		o.Measurer = layout.NewEstimator()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// ForcedDialect resolves the dialect override, if any.
func (o *Options) ForcedDialect() (parser.Dialect, bool) {
	if o.Dialect == "" || o.Dialect == "auto" {
		return 0, false
	}
	return parser.DialectFromString(o.Dialect)
}

// measurerName identifies the measurer for cache keys, since metrics
// differ between the estimator and real fonts.
func (o *Options) measurerName() string {
	switch o.Measurer.(type) {
	case *layout.Estimator, nil:
		return "estimator"
	case *layout.FontMeasurer:
		return "font"
	default:
		return "custom"
	}
}

// DocKeyOpts returns cache key options for document parsing.
func (o *Options) DocKeyOpts() cache.DocKeyOpts {
	return cache.DocKeyOpts{Dialect: o.Dialect}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(direction string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction: direction,
		Measurer:  o.measurerName(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

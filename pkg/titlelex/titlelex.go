// Package titlelex is the public facade over the title-parsing pipeline:
// load a pattern library once, then parse titles against it.
package titlelex

import (
	"context"

	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
	"github.com/titlelex/titlelex/internal/pipeline"
	"github.com/titlelex/titlelex/internal/telemetry"
)

// Output is the structured result of parsing one title.
type Output = pipeline.Output

// Trace is the stage-by-stage record of one title's parse, for debugging.
type Trace = pipeline.Trace

// Library is a loaded, read-only pattern set.
type Library = patterns.Library

// Store is the persistence seam patterns.Load (via LoadLibrary) reads from.
type Store = patterns.Store

// LoadLibrary reads the active patterns of the required types from store
// and compiles them.
func LoadLibrary(ctx context.Context, store Store, logger *observability.Logger) (*Library, error) {
	return patterns.Load(ctx, store, logger)
}

// Parser runs titles through the five-stage pipeline against a fixed
// library. Safe for concurrent use.
type Parser struct {
	pipe *pipeline.Pipeline
}

// NewParser builds a Parser. logger and writer may both be nil.
func NewParser(lib *Library, logger *observability.Logger, writer *telemetry.Writer, opts pipeline.Options) *Parser {
	return &Parser{pipe: pipeline.New(lib, logger, writer, opts)}
}

// Parse runs title through all five stages and returns the structured
// result. It never fails on an unparseable title; the only error path is a
// canceled context.
func (p *Parser) Parse(ctx context.Context, title string) (*Output, error) {
	return p.pipe.Run(ctx, title)
}

// Trace runs title through all five stages like Parse, but returns every
// intermediate stage result alongside the final output.
func (p *Parser) Trace(ctx context.Context, title string) (*Trace, error) {
	return p.pipe.Trace(ctx, title)
}

// Package telemetry records pipeline outcomes without ever slowing down a
// parse: every RecordHit/RecordMiss call drops an event on a buffered channel and
// returns, and a background goroutine is the only thing that ever talks to
// the store.
package telemetry

import (
	"context"
	"time"

	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/patterns"
)

// OutcomeStore persists pattern hit/miss counters. storage.PatternRepository
// implements it via RecordOutcome.
type OutcomeStore interface {
	RecordOutcome(ctx context.Context, t patterns.Type, term string, success bool) error
}

// Config configures the writer's buffering behavior.
type Config struct {
	BufferSize    int
	FlushInterval time.Duration
}

// DefaultConfig returns sane buffering defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:    2000,
		FlushInterval: 5 * time.Second,
	}
}

// outcomeEvent is one pattern hit or miss observed by a pipeline stage.
type outcomeEvent struct {
	Type    patterns.Type
	Term    string
	Success bool
}

// Writer is the non-blocking, lossy-safe telemetry sink: a stall talking
// to the store never blocks the pipeline that's calling Record.
type Writer struct {
	logger *observability.Logger
	store  OutcomeStore
	buffer chan outcomeEvent
	config Config
	stopCh chan struct{}
}

// NewWriter creates a Writer and starts its background flush loop. store
// may be nil, in which case outcomes are dropped at flush time and never
// persisted.
func NewWriter(logger *observability.Logger, store OutcomeStore, cfg Config) *Writer {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 2000
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}

	w := &Writer{
		logger: logger,
		store:  store,
		buffer: make(chan outcomeEvent, cfg.BufferSize),
		config: cfg,
		stopCh: make(chan struct{}),
	}

	go w.run()

	return w
}

// RecordHit records that a pattern matched and contributed to a stage's
// result.
func (w *Writer) RecordHit(t patterns.Type, term string) {
	w.enqueue(outcomeEvent{Type: t, Term: term, Success: true})
}

// RecordMiss records that a pattern was evaluated but did not match.
// The pipeline stages call neither RecordHit nor RecordMiss; outcomes
// reach the store only from callers that record them explicitly.
func (w *Writer) RecordMiss(t patterns.Type, term string) {
	w.enqueue(outcomeEvent{Type: t, Term: term, Success: false})
}

func (w *Writer) enqueue(e outcomeEvent) {
	select {
	case w.buffer <- e:
	default:
		if w.logger != nil {
			w.logger.Warn().
				Str("type", string(e.Type)).
				Str("term", e.Term).
				Msg("telemetry buffer full, dropping outcome event")
		}
	}
}

// RecordStageConfidence logs a stage's confidence for a single title. This
// is diagnostic only — there is no invariant tying it to pipeline output —
// so it goes straight to the logger rather than through the buffer.
func (w *Writer) RecordStageConfidence(stage string, confidence float64, matched bool) {
	if w.logger == nil {
		return
	}
	w.logger.Debug().
		Str("stage", stage).
		Float64("confidence", confidence).
		Bool("matched", matched).
		Msg("stage result")
}

func (w *Writer) run() {
	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	var batch []outcomeEvent

	for {
		select {
		case e := <-w.buffer:
			batch = append(batch, e)
			if len(batch) >= 200 {
				w.flush(batch)
				batch = nil
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		case <-w.stopCh:
			for len(w.buffer) > 0 {
				batch = append(batch, <-w.buffer)
			}
			if len(batch) > 0 {
				w.flush(batch)
			}
			return
		}
	}
}

func (w *Writer) flush(batch []outcomeEvent) {
	if w.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, e := range batch {
		if err := w.store.RecordOutcome(ctx, e.Type, e.Term, e.Success); err != nil && w.logger != nil {
			w.logger.Warn().
				Str("type", string(e.Type)).
				Str("term", e.Term).
				Err(err).
				Msg("failed to persist pattern outcome")
		}
	}
}

// Stop drains the buffer and stops the background flush loop.
func (w *Writer) Stop() {
	close(w.stopCh)
}

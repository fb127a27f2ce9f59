// Package batch runs many titles through a Parser concurrently, bounding
// how many run at once the way a corpus import needs to.
package batch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/titlelex/titlelex/internal/observability"
	"github.com/titlelex/titlelex/internal/pipeline"
)

// Result pairs a source title with its parsed output, or the error that
// stopped its parse. A Parser failure here is always a context
// cancellation: the pipeline itself never errors on an unparseable title.
type Result struct {
	Index  int
	Title  string
	Output *pipeline.Output
	Err    error
}

// Runner drives a fixed-size pool of workers over a title slice.
type Runner struct {
	pipe        *pipeline.Pipeline
	logger      *observability.Logger
	concurrency int
}

// NewRunner builds a Runner. A concurrency of 0 or less is treated as 1.
func NewRunner(pipe *pipeline.Pipeline, logger *observability.Logger, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{pipe: pipe, logger: logger, concurrency: concurrency}
}

// Progress is called after each title finishes, in completion order (not
// necessarily input order), so callers can drive a progress bar.
type Progress func(done, total int)

// Run parses every title, bounding in-flight work to the runner's
// concurrency. Results are returned in the same order as titles regardless
// of completion order. The run only aborts early if ctx is canceled; a
// single title failing to parse cleanly never stops the batch.
func (r *Runner) Run(ctx context.Context, titles []string, onProgress Progress) ([]Result, error) {
	results := make([]Result, len(titles))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	var completed atomic.Int64
	for i, title := range titles {
		i, title := i, title
		group.Go(func() error {
			out, err := r.pipe.Run(gctx, title)
			results[i] = Result{Index: i, Title: title, Output: out, Err: err}
			if err != nil && r.logger != nil {
				r.logger.Warn().Str("title", title).Err(err).Msg("batch title aborted")
			}
			if onProgress != nil {
				onProgress(int(completed.Add(1)), len(titles))
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

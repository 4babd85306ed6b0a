package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"voicepack/internal/catalog"
	"voicepack/internal/logging"
	"voicepack/internal/services"
)

// ErrInterrupted reports that a run stopped before processing every item.
var ErrInterrupted = errors.New("run interrupted")

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 3

// Runner executes a processor over a set of items with a fixed pool of
// workers.
type Runner struct {
	workers   int
	processor *Processor
	logger    *slog.Logger
	onResult  func(Result)
}

// NewRunner builds a runner. onResult, when non-nil, is invoked from the
// aggregation goroutine for each result in completion order.
func NewRunner(workers int, processor *Processor, logger *slog.Logger, onResult func(Result)) *Runner {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		workers:   workers,
		processor: processor,
		logger:    logger,
		onResult:  onResult,
	}
}

// Run processes all items and returns the tally. On context cancellation
// it stops dispatching new items, marks the summary interrupted, and
// returns ErrInterrupted; results that completed before the interrupt are
// still counted.
func (r *Runner) Run(ctx context.Context, items []catalog.Item) (Summary, error) {
	summary := Summary{Total: len(items)}
	if len(items) == 0 {
		return summary, nil
	}

	jobs := make(chan catalog.Item)
	// Buffered so workers finishing after an interrupt never block.
	results := make(chan Result, len(items))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				itemCtx := services.WithItemIndex(ctx, item.Index)
				results <- r.processor.Process(itemCtx, item)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return summary, nil
			}
			r.record(res, &summary)
		case <-ctx.Done():
			// Drain results already produced before reporting the
			// interrupt so the tally reflects completed work.
			for {
				select {
				case res, ok := <-results:
					if !ok {
						summary.Interrupted = true
						return summary, ErrInterrupted
					}
					r.record(res, &summary)
				default:
					summary.Interrupted = true
					return summary, ErrInterrupted
				}
			}
		}
	}
}

func (r *Runner) record(res Result, summary *Summary) {
	summary.add(res)
	switch res.Status {
	case StatusFailed:
		r.logger.Error("item failed",
			logging.Int("index", res.Index),
			logging.String("reason", res.Message))
	case StatusSkipped:
		r.logger.Debug("item skipped", logging.Int("index", res.Index))
	default:
		r.logger.Info("item complete",
			logging.Int("index", res.Index),
			logging.String("detail", res.Message))
	}
	if r.onResult != nil {
		r.onResult(res)
	}
}

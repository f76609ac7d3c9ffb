package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reconcile"
)

// DefaultConcurrency is the default number of sittings processed at once.
const DefaultConcurrency = 2

// BatchProcessor handles concurrent processing of multiple sittings.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single sitting
// 2. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each sitting.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent sittings.
	concurrency int

	// runID identifies the batch in logs and reports.
	runID string

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent sittings.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRunID sets the run identifier instead of a random one.
func WithRunID(id string) BatchOption {
	return func(b *BatchProcessor) {
		if id != "" {
			b.runID = id
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each sitting so that pipeline
// state never leaks between sittings.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		runID:           uuid.NewString(),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	bp.logger = bp.logger.With("run", bp.runID)

	return bp
}

// RunID returns the batch identifier.
func (bp *BatchProcessor) RunID() string {
	return bp.runID
}

// ProcessBatch runs the pipeline of every sitting, each with its own run and
// dedup set. Runs are returned in the order of sittings.
//
// A sitting that fails is recorded in its run and does not stop the batch.
// A duplicate join key is the exception: it means the record identity is
// broken, so the batch is cancelled and the *reconcile.DuplicateKeyError is
// returned. Runs of sittings that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sittings []model.Sitting) ([]*model.SittingRun, error) {
	bp.logger.Info("starting batch processing",
		"total_sittings", len(sittings),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	runs := make([]*model.SittingRun, len(sittings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, sitting := range sittings {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("processing sitting",
				"sitting", sitting.String(),
				"index", i+1,
				"total", len(sittings),
			)

			run := model.NewSittingRun(sitting)
			runs[i] = run
			err := bp.pipelineFactory().Execute(ctx, run)

			var dup *reconcile.DuplicateKeyError
			if errors.As(err, &dup) {
				return err
			}
			if err != nil {
				bp.logger.Warn("sitting failed",
					"sitting", sitting.String(),
					"error", err,
				)
				return nil
			}

			bp.logger.Info("sitting completed",
				"sitting", sitting.String(),
				"votes", len(run.Votes),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_sittings", len(sittings),
		"elapsed", time.Since(startTime),
	)

	return runs, err
}

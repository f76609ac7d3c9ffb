package fetch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of concurrent fetches.
const DefaultWorkers = 4

// Fetcher fetches one document. Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome for one key. When Err is set, Value is the zero
// value and the Result acts as a placeholder for the failed key.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

// Pool bounds the number of concurrent fetches.
type Pool struct {
	workers int
	logger  *slog.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithPoolLogger sets the logger.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a Pool.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Map calls fn for every key with at most p.Workers() calls in flight.
// The returned slice has one Result per key, in the order of keys.
//
// Design decision: We use errgroup.SetLimit rather than a hand-written
// worker pool because it's simpler and errgroup handles the concurrency
// correctly. fn errors are stored in the Result, never returned to the
// group, so one failure does not cancel the rest.
func Map[T any](ctx context.Context, p *Pool, keys []string, fn func(ctx context.Context, key string) (T, error)) []Result[T] {
	results := make([]Result[T], len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, key := range keys {
		results[i].Key = key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			value, err := fn(ctx, key)
			if err != nil {
				p.logger.Warn("fetch failed", "key", key, "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Value = value
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return errors
	return results
}

// Fetch downloads every url through f.
func (p *Pool) Fetch(ctx context.Context, f Fetcher, urls []string) []Result[[]byte] {
	return Map(ctx, p, urls, f.Get)
}

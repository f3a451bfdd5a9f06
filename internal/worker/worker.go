package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs independent tasks on a bounded number of goroutines
type Pool struct {
	concurrency int
}

// NewPool creates a new worker pool. A non-positive concurrency uses one
// worker per CPU.
func NewPool(concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pool{concurrency: concurrency}
}

// Concurrency returns the worker limit
func (p *Pool) Concurrency() int {
	return p.concurrency
}

// Run calls task once for every index in [0, n). Tasks own their failures;
// nothing they do stops the others. Dispatching stops once ctx is done, in
// which case the tasks already started are awaited and ctx.Err() returned.
func (p *Pool) Run(ctx context.Context, n int, task func(i int)) error {
	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}

		i := i
		g.Go(func() error {
			task(i)
			return nil
		})
	}

	return g.Wait()
}

// RunSequential calls task for every index in order on the calling goroutine,
// checking ctx between tasks.
func RunSequential(ctx context.Context, n int, task func(i int)) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		task(i)
	}
	return nil
}

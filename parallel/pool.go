// Package parallel runs many entities concurrently and collects the one
// result each of them reports.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sarchlab/filterkit/sim"
)

// A Task is an entity that can run in parallel mode, pushing its result to a
// queue it does not own.
type Task interface {
	sim.Named
	RunParallel(ctx context.Context, q chan<- sim.Result) error
}

// A ProgressTracker is told when tasks start and finish.
type ProgressTracker interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// Pool runs tasks on a bounded number of goroutines.
type Pool struct {
	workers  int
	progress ProgressTracker
}

// NewPool creates a Pool with one worker per available CPU.
func NewPool() *Pool {
	return &Pool{workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of concurrently running tasks.
func (p *Pool) WithWorkers(n int) *Pool {
	if n < 1 {
		panic("a pool needs at least one worker")
	}

	p.workers = n

	return p
}

// WithProgressTracker reports task progress to t.
func (p *Pool) WithProgressTracker(t ProgressTracker) *Pool {
	p.progress = t
	return p
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the tasks and returns the result channel, which is closed
// once every task has finished, and an error channel that yields at most one
// error per failed task before being closed.
func (p *Pool) Start(
	ctx context.Context,
	tasks []Task,
) (<-chan sim.Result, <-chan error) {
	results := make(chan sim.Result, len(tasks))
	errs := make(chan error, len(tasks))

	slots := make(chan struct{}, p.workers)
	wg := sync.WaitGroup{}

	for _, t := range tasks {
		wg.Add(1)

		go func(t Task) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs <- fmt.Errorf("%s: %w", t.Name(), err)
				return
			}

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				errs <- fmt.Errorf("%s: %w", t.Name(), ctx.Err())
				return
			}
			defer func() { <-slots }()

			p.runTask(ctx, t, results, errs)
		}(t)
	}

	go func() {
		wg.Wait()
		close(results)
		close(errs)
	}()

	return results, errs
}

func (p *Pool) runTask(
	ctx context.Context,
	t Task,
	results chan<- sim.Result,
	errs chan<- error,
) {
	if p.progress != nil {
		p.progress.IncrementInProgress(1)
		defer p.progress.MoveInProgressToFinished(1)
	}

	if err := t.RunParallel(ctx, results); err != nil {
		errs <- fmt.Errorf("%s: %w", t.Name(), err)
	}
}

// Run starts the tasks, waits for all of them, and returns the results in
// completion order together with the first error encountered.
func (p *Pool) Run(ctx context.Context, tasks []Task) ([]sim.Result, error) {
	results, errs := p.Start(ctx, tasks)

	collected := make([]sim.Result, 0, len(tasks))
	for r := range results {
		collected = append(collected, r)
	}

	var firstErr error
	for err := range errs {
		if firstErr == nil {
			firstErr = err
		}
	}

	return collected, firstErr
}

// ByEntity indexes results by entity name.
func ByEntity(results []sim.Result) map[string]sim.Result {
	m := make(map[string]sim.Result, len(results))
	for _, r := range results {
		m[r.Entity] = r
	}

	return m
}

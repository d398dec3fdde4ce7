// Package workers runs independent fetches in parallel while keeping results
// in input order.
package workers

import (
	"context"
	"sync"
)

// Pool bounds how many tasks run at once.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers. One worker runs
// tasks serially.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
	}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Task is the outcome of processing one input.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// Process applies fn to every input and returns one Task per input, in input
// order. A failing input does not stop the others. Inputs not started before
// ctx is cancelled carry ctx.Err().
func Process[T any, R any](ctx context.Context, pool *Pool, inputs []T, fn func(context.Context, T) (R, error)) []Task[T, R] {
	if len(inputs) == 0 {
		return nil
	}

	results := make([]Task[T, R], len(inputs))
	for i := range inputs {
		results[i].Input = inputs[i]
	}

	started := make([]bool, len(inputs))
	indexCh := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < pool.workers && i < len(inputs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				// Each index is owned by exactly one worker.
				results[idx].Result, results[idx].Err = fn(ctx, inputs[idx])
			}
		}()
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case indexCh <- i:
			started[i] = true
		}
	}
	close(indexCh)
	wg.Wait()

	for i := range results {
		if !started[i] {
			results[i].Err = ctx.Err()
		}
	}

	return results
}

// Errors returns the non-nil errors of tasks, in order.
func Errors[T any, R any](tasks []Task[T, R]) []error {
	var errs []error
	for _, t := range tasks {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errs
}

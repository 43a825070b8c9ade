package worker

import (
	"context"
	"sync"
)

// Task is one unit of work submitted to the pool
type Task[T any] func(ctx context.Context) T

// Pool runs tasks across a fixed number of goroutines and returns results
// in submission order
type Pool[T any] struct {
	workers int
}

// NewPool creates a pool of the given width
func NewPool[T any](workers int) *Pool[T] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{workers: workers}
}

// Run executes all tasks, at most `workers` concurrently. Cancellation stops
// picking up new tasks; in-flight tasks see the cancelled context and the
// corresponding slots keep their zero value.
func (p *Pool[T]) Run(ctx context.Context, tasks []Task[T]) []T {
	results := make([]T, len(tasks))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = tasks[i](ctx)
			}
		}()
	}

	for i := range tasks {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return results
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
	return results
}

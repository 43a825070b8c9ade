package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolPreservesSubmissionOrder(t *testing.T) {
	pool := NewPool[int](4)

	var tasks []Task[int]
	for i := 0; i < 50; i++ {
		i := i
		tasks = append(tasks, func(context.Context) int { return i * 2 })
	}

	results := pool.Run(context.Background(), tasks)
	if len(results) != 50 {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, r, i*2)
		}
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const width = 3
	pool := NewPool[struct{}](width)

	var active, peak int32
	var mu sync.Mutex

	var tasks []Task[struct{}]
	for i := 0; i < 20; i++ {
		tasks = append(tasks, func(context.Context) struct{} {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return struct{}{}
		})
	}
	pool.Run(context.Background(), tasks)

	if peak > width {
		t.Errorf("peak concurrency %d exceeded pool width %d", peak, width)
	}
}

func TestPoolStopsOnCancel(t *testing.T) {
	pool := NewPool[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran int32
	var tasks []Task[int]
	for i := 0; i < 100; i++ {
		tasks = append(tasks, func(context.Context) int {
			atomic.AddInt32(&ran, 1)
			cancel() // First task cancels the rest
			return 1
		})
	}

	pool.Run(ctx, tasks)
	if n := atomic.LoadInt32(&ran); n >= 100 {
		t.Errorf("all %d tasks ran despite cancellation", n)
	}
}

func TestPlatformLimiterIsolatesPlatforms(t *testing.T) {
	limiter := NewPlatformLimiter(1, 1)
	ctx := context.Background()

	// Burst on one platform; a different platform must not be starved
	if err := limiter.Wait(ctx, "perplexity"); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := limiter.Wait(ctx, "gemini"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("second platform waited %v behind the first", elapsed)
	}
}

func TestPlatformLimiterHonorsCancel(t *testing.T) {
	limiter := NewPlatformLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_ = limiter.Wait(ctx, "chatgpt") // Consumes the burst token
	if err := limiter.Wait(ctx, "chatgpt"); err == nil {
		t.Error("second wait succeeded before the context deadline")
	}
}

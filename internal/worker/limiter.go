// Package worker bounds concurrent probe execution: a fixed-size pool that
// keeps question order in its output, and a per-platform rate limiter so a
// burst of probes never hammers one answer engine.
package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// PlatformLimiter throttles probes independently per platform
type PlatformLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewPlatformLimiter creates a limiter allowing rps requests per second
// with the given burst against each platform
func NewPlatformLimiter(rps float64, burst int) *PlatformLimiter {
	if rps <= 0 {
		rps = 0.5
	}
	if burst < 1 {
		burst = 1
	}
	return &PlatformLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until platform has capacity or ctx is done
func (p *PlatformLimiter) Wait(ctx context.Context, platform string) error {
	return p.limiterFor(platform).Wait(ctx)
}

func (p *PlatformLimiter) limiterFor(platform string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[platform]
	if !ok {
		l = rate.NewLimiter(rate.Limit(p.rps), p.burst)
		p.limiters[platform] = l
	}
	return l
}

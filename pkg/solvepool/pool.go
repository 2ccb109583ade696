// Package solvepool bounds the number of CP-SAT solves running concurrently.
//
// Unlike the fire-and-forget worker queue it is adapted from, a solve is
// synchronous from the caller's point of view: Run blocks the calling
// goroutine until either its slot is granted and the solve function
// returns, or the context is cancelled. No job or result is held in memory
// once Run returns, so the pool carries no cross-request state.
package solvepool

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config configures the pool's admission behaviour.
type Config struct {
	// MaxConcurrent is the maximum number of solves allowed to run at once.
	MaxConcurrent int
	Logger        *zap.Logger
}

// Pool gates concurrent access to the CP-SAT solver.
type Pool struct {
	name   string
	tokens chan struct{}
	logger *zap.Logger

	inFlight int64
	total    int64
}

// New builds a pool with the given concurrency limit.
func New(name string, cfg Config) *Pool {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{
		name:   name,
		tokens: make(chan struct{}, cfg.MaxConcurrent),
		logger: cfg.Logger,
	}
}

// Run waits for a free slot and then executes fn, returning its error. If
// ctx is cancelled before a slot is free, Run returns an error wrapping
// ctx.Err() without running fn.
func (p *Pool) Run(ctx context.Context, fn func(context.Context) error) error {
	select {
	case p.tokens <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("solvepool %s: %w waiting for slot", p.name, ctx.Err())
	}
	defer func() { <-p.tokens }()

	atomic.AddInt64(&p.inFlight, 1)
	atomic.AddInt64(&p.total, 1)
	defer atomic.AddInt64(&p.inFlight, -1)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		p.logger.Sugar().Warnw("solve failed", "pool", p.name, "duration", duration, "error", err)
	} else {
		p.logger.Sugar().Debugw("solve completed", "pool", p.name, "duration", duration)
	}
	return err
}

// InFlight reports the number of solves currently running.
func (p *Pool) InFlight() int64 {
	return atomic.LoadInt64(&p.inFlight)
}

// Total reports the cumulative number of solves admitted since startup.
func (p *Pool) Total() int64 {
	return atomic.LoadInt64(&p.total)
}

// Capacity reports the configured concurrency limit.
func (p *Pool) Capacity() int {
	return cap(p.tokens)
}

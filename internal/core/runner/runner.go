// Package runner drives the probe run: a fixed-size set of workers
// pulling candidate URLs from a shared queue, each gated by the shared
// rate limiter, emitting outcomes to the configured sink.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"probex/internal/core/domain"
	"probex/internal/platform/logx"
	"probex/internal/platform/rate"
)

// Prober executes one candidate end-to-end.
type Prober interface {
	Probe(ctx context.Context, c domain.CandidateURL) *domain.ProbeOutcome
}

// Sink consumes completed outcomes in completion order.
type Sink interface {
	Emit(out *domain.ProbeOutcome) error
}

// Summary holds the run counters for the closing report.
type Summary struct {
	Attempted int64
	Succeeded int64
	Failed    int64
	Elapsed   time.Duration
}

// Config configures the worker pool.
type Config struct {
	Workers int
	Limiter *rate.Limiter // nil = unlimited
	Delay   time.Duration // fixed pause before each probe, per worker
	Logger  logx.Logger
}

// Pool is the fixed-size worker pool. The queue and the limiter are
// the only cross-worker shared mutable state; summary counters are
// atomic.
type Pool struct {
	workers int
	limiter *rate.Limiter
	delay   time.Duration
	prober  Prober
	sink    Sink
	logger  logx.Logger

	attempted atomic.Int64
	succeeded atomic.Int64
}

// New creates a worker pool.
func New(cfg Config, prober Prober, sink Sink) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 50
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Pool{
		workers: cfg.Workers,
		limiter: cfg.Limiter,
		delay:   cfg.Delay,
		prober:  prober,
		sink:    sink,
		logger:  cfg.Logger.With("component", "runner"),
	}
}

// Run probes every candidate exactly once and returns the run summary.
// It blocks until the queue drains and every in-flight probe has
// completed. Cancelling the context abandons queued and in-flight
// work without emitting outcomes for it.
func (p *Pool) Run(ctx context.Context, candidates []domain.CandidateURL) Summary {
	start := time.Now()

	queue := make(chan domain.CandidateURL)

	go func() {
		defer close(queue)
		for _, c := range candidates {
			select {
			case queue <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	p.logger.Debug("pool started", "workers", p.workers, "candidates", len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, queue)
		}(i)
	}
	wg.Wait()

	return Summary{
		Attempted: p.attempted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.attempted.Load() - p.succeeded.Load(),
		Elapsed:   time.Since(start),
	}
}

func (p *Pool) worker(ctx context.Context, id int, queue <-chan domain.CandidateURL) {
	for c := range queue {
		// The limiter wait is the only rate-attributable suspension
		// point; timing inside the probe starts after it.
		if err := p.limiter.Wait(ctx); err != nil {
			p.logger.Debug("worker stopped", "worker_id", id)
			return
		}

		if p.delay > 0 {
			select {
			case <-time.After(p.delay):
			case <-ctx.Done():
				return
			}
		}

		out := p.prober.Probe(ctx, c)
		if ctx.Err() != nil {
			// Aborted mid-probe: abandon without emitting.
			return
		}

		p.attempted.Add(1)
		if out.ProbeStatus {
			p.succeeded.Add(1)
		}

		if err := p.sink.Emit(out); err != nil {
			p.logger.Warn("emit failed", "url", out.URL, "error", err.Error())
		}
	}
}

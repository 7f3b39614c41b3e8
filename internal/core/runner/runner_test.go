package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"probex/internal/core/domain"
	"probex/internal/platform/logx"
	"probex/internal/platform/rate"
	"probex/internal/testutil"
)

// fakeProber records which URLs it probed and answers per a canned map.
type fakeProber struct {
	mu      sync.Mutex
	probed  []string
	failFor map[string]bool
	delay   time.Duration

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (f *fakeProber) Probe(ctx context.Context, c domain.CandidateURL) *domain.ProbeOutcome {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	defer f.inFlight.Add(-1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.probed = append(f.probed, c.URL())
	f.mu.Unlock()

	out := domain.NewProbeOutcome(c.URL())
	if f.failFor[c.URL()] {
		out.Fail("ConnectionFailed")
	} else {
		out.ProbeStatus = true
	}
	return out
}

// fakeSink collects every emitted outcome.
type fakeSink struct {
	mu       sync.Mutex
	outcomes []*domain.ProbeOutcome
}

func (f *fakeSink) Emit(out *domain.ProbeOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, out)
	return nil
}

func candidates(hosts ...string) []domain.CandidateURL {
	out := make([]domain.CandidateURL, len(hosts))
	for i, h := range hosts {
		out[i] = domain.NewCandidate("https", h, 443)
	}
	return out
}

func TestPool_EveryCandidateProbedExactlyOnce(t *testing.T) {
	prober := &fakeProber{}
	sink := &fakeSink{}

	hosts := make([]string, 100)
	for i := range hosts {
		hosts[i] = "host" + string(rune('a'+i%26)) + string(rune('0'+i/26)) + ".example.com"
	}

	pool := New(Config{Workers: 8, Logger: logx.NewSilent()}, prober, sink)
	summary := pool.Run(context.Background(), candidates(hosts...))

	testutil.AssertEqual(t, summary.Attempted, int64(100), "every candidate attempted")
	testutil.AssertEqual(t, summary.Succeeded, int64(100), "every candidate succeeded")
	testutil.AssertEqual(t, len(sink.outcomes), 100, "one outcome per candidate")

	seen := make(map[string]int)
	for _, out := range sink.outcomes {
		seen[out.URL]++
	}
	for url, n := range seen {
		testutil.AssertEqual(t, n, 1, "candidate "+url+" emitted exactly once")
	}
}

func TestPool_ConcurrencyBound(t *testing.T) {
	prober := &fakeProber{delay: 20 * time.Millisecond}
	sink := &fakeSink{}

	hosts := make([]string, 30)
	for i := range hosts {
		hosts[i] = "h" + string(rune('a'+i)) + ".example.com"
	}

	pool := New(Config{Workers: 4, Logger: logx.NewSilent()}, prober, sink)
	pool.Run(context.Background(), candidates(hosts...))

	testutil.AssertTrue(t, prober.maxInFlight.Load() <= 4, "in-flight probes never exceed worker count")
	testutil.AssertTrue(t, prober.maxInFlight.Load() > 1, "workers actually overlap")
}

func TestPool_FailuresCountSeparately(t *testing.T) {
	prober := &fakeProber{failFor: map[string]bool{
		"https://down.example.com": true,
	}}
	sink := &fakeSink{}

	pool := New(Config{Workers: 2, Logger: logx.NewSilent()}, prober, sink)
	summary := pool.Run(context.Background(), candidates("up.example.com", "down.example.com"))

	testutil.AssertEqual(t, summary.Attempted, int64(2), "both attempted")
	testutil.AssertEqual(t, summary.Succeeded, int64(1), "one succeeded")
	testutil.AssertEqual(t, summary.Failed, int64(1), "one failed")
	testutil.AssertEqual(t, len(sink.outcomes), 2, "failures are still emitted")
}

func TestPool_CancellationAbandonsWork(t *testing.T) {
	prober := &fakeProber{delay: 50 * time.Millisecond}
	sink := &fakeSink{}

	hosts := make([]string, 50)
	for i := range hosts {
		hosts[i] = "c" + string(rune('a'+i%26)) + ".example.com"
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(75 * time.Millisecond)
		cancel()
	}()

	pool := New(Config{Workers: 2, Logger: logx.NewSilent()}, prober, sink)
	summary := pool.Run(ctx, candidates(hosts...))

	testutil.AssertTrue(t, summary.Attempted < 50, "cancellation should cut the run short")
	testutil.AssertEqual(t, int64(len(sink.outcomes)), summary.Attempted, "emitted matches attempted")
}

func TestPool_RateLimiterSlowsIssue(t *testing.T) {
	prober := &fakeProber{}
	sink := &fakeSink{}

	// 10/s with burst 1: 5 candidates need roughly 400ms of waiting.
	limiter := rate.New(10, 1)
	pool := New(Config{Workers: 4, Limiter: limiter, Logger: logx.NewSilent()}, prober, sink)

	start := time.Now()
	summary := pool.Run(context.Background(), candidates("a.example.com", "b.example.com", "c.example.com", "d.example.com", "e.example.com"))
	elapsed := time.Since(start)

	testutil.AssertEqual(t, summary.Attempted, int64(5), "all candidates attempted")
	testutil.AssertTrue(t, elapsed >= 300*time.Millisecond, "rate limit should throttle issuance")
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	pool := New(Config{Workers: 0, Logger: logx.NewSilent()}, &fakeProber{}, &fakeSink{})
	testutil.AssertEqual(t, pool.workers, 50, "zero workers falls back to default")
}

// Package probe executes one candidate URL end-to-end: issue the
// request, follow redirects up to a bound, analyze the final response,
// and produce exactly one ProbeOutcome. Failures never escape the
// pipeline; they surface as probe_status=false with an error category.
package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"probex/internal/core/domain"
	"probex/internal/platform/errors"
	"probex/internal/platform/logx"
)

const (
	// maxBodyBytes caps how much of a response body is read, bounding
	// memory per in-flight probe.
	maxBodyBytes = 10 << 20

	// drainBytes caps how much of an intermediate redirect body is
	// drained before the connection is reused.
	drainBytes = 32 << 10
)

// Probes selects which response-derived fields to compute.
type Probes struct {
	Title      bool
	BodyHash   bool
	HeaderHash bool
	Favicon    bool
	LineCount  bool
	WordCount  bool
}

// Config holds the per-run probe settings.
type Config struct {
	Timeout         time.Duration     // wall clock per HTTP exchange (one hop)
	FollowRedirects bool
	MaxRedirects    int
	Insecure        bool
	ProxyURL        string
	UserAgent       string
	Headers         map[string]string // extra request headers
	PoolSize        int               // sizes the transport's connection pool
	Probes          Probes
}

// DefaultConfig returns the default probe configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		MaxRedirects: 10,
		UserAgent:    "probex/1.0",
		PoolSize:     50,
	}
}

// Pipeline probes candidate URLs. Safe for concurrent use; the
// underlying transport pools connections across workers.
type Pipeline struct {
	cfg    Config
	client *http.Client
	logger logx.Logger
}

// New creates a probe pipeline. It fails only on unusable
// configuration (a malformed proxy URL), which is fatal-tier.
func New(cfg Config, logger logx.Logger) (*Pipeline, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "probex/1.0"
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 50
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "probe"),
	}, nil
}

// Probe runs the full pipeline for one candidate. It never returns an
// error: every failure is converted into an outcome with
// probe_status=false and a populated error category.
func (p *Pipeline) Probe(ctx context.Context, c domain.CandidateURL) *domain.ProbeOutcome {
	out := domain.NewProbeOutcome(c.URL())

	start := time.Now()
	resp, body, location, err := p.fetch(ctx, c.URL())
	elapsed := time.Since(start).Seconds()

	if err != nil {
		category := errors.Categorize(err)
		p.logger.Debug("probe failed", "url", out.URL, "category", category)
		out.Fail(category)
		return out
	}

	p.analyze(ctx, out, resp, body, location, elapsed)

	p.logger.Debug("probe completed",
		"url", out.URL,
		"status", resp.StatusCode,
		"elapsed_ms", int(elapsed*1000),
	)

	return out
}

// fetch issues the request and follows redirects manually. It returns
// the final response with its body fully read, plus the redirect
// target left unfollowed when the final response is still a redirect.
// Each hop gets the full configured timeout independently; a slow
// chain is bounded by hop count, not cumulative time.
func (p *Pipeline) fetch(ctx context.Context, rawURL string) (*http.Response, []byte, string, error) {
	visited := map[string]struct{}{rawURL: {}}
	current := rawURL
	hops := 0

	for {
		hopCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)

		resp, err := p.do(hopCtx, current)
		if err != nil {
			cancel()
			return nil, nil, "", err
		}

		next := redirectTarget(resp)
		if next == "" || !p.cfg.FollowRedirects || hops >= p.cfg.MaxRedirects {
			// Final response: read the body within this hop's budget.
			// When redirects are off or the hop bound is hit, next is
			// reported as the unfollowed location.
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			cancel()
			if readErr != nil {
				if errors.Categorize(readErr) == errors.CategoryTimeout {
					return nil, nil, "", errors.ErrTimeout
				}
				return nil, nil, "", errors.ErrMalformedResponse
			}
			return resp, body, next, nil
		}

		if _, seen := visited[next]; seen {
			resp.Body.Close()
			cancel()
			return nil, nil, "", errors.ErrRedirectLoop
		}
		visited[next] = struct{}{}

		// Drain a bounded amount so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, drainBytes))
		resp.Body.Close()
		cancel()

		current = next
		hops++
	}
}

// do performs a single HTTP exchange with the configured headers.
func (p *Pipeline) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConnectionFailed, err.Error())
	}

	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range p.cfg.Headers {
		req.Header.Set(key, value)
	}

	return p.client.Do(req)
}

// redirectTarget returns the absolute URL a redirect response points
// at, or "" when the response is not a followable redirect.
func redirectTarget(resp *http.Response) string {
	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return ""
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return ""
	}
	ref, err := resp.Request.URL.Parse(loc)
	if err != nil {
		return ""
	}
	return ref.String()
}

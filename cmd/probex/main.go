// cmd/probex/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"probex/internal/adapters/output"
	"probex/internal/core/expand"
	"probex/internal/core/probe"
	"probex/internal/core/runner"
	"probex/internal/platform/config"
	"probex/internal/platform/logx"
	"probex/internal/platform/rate"
	"probex/internal/platform/ui"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Load layered config (flags > env > file > defaults)
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return exitConfig
	}

	if cfg.PrintVersion {
		config.PrintVersion(version, commit, date)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	// 2. Shared logger
	logger := logx.New()
	if cfg.Silent {
		logger = logx.NewSilent()
	}

	headers, warnings := config.ParseHeaders(cfg.Headers)
	for _, w := range warnings {
		logger.Warn(w)
	}

	// 3. Collect targets: -u literals, then -l file, then stdin pipe
	targets, err := loadTargets(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no targets provided")
		fmt.Fprintln(os.Stderr, "Usage: probex -u <target> [-u <target> ...]")
		fmt.Fprintln(os.Stderr, "Try: probex -h for help")
		return exitConfig
	}

	// 4. Expand targets into candidate URLs
	candidates, err := expand.Expand(targets, cfg.Ports)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	logger.Debug("targets expanded", "targets", len(targets), "candidates", len(candidates))

	// 5. Context with signal cancellation for clean shutdown
	ctx, interrupted, cancel := rootContextWithSignals()
	defer cancel()

	// 6. Build the probe pipeline
	pipeline, err := probe.New(probe.Config{
		Timeout:         cfg.Timeout(),
		FollowRedirects: cfg.FollowRedirects,
		MaxRedirects:    cfg.MaxRedirects,
		Insecure:        cfg.Insecure,
		ProxyURL:        cfg.ProxyURL,
		UserAgent:       cfg.UserAgent,
		Headers:         headers,
		PoolSize:        cfg.Workers,
		Probes: probe.Probes{
			Title:      cfg.Show.Title,
			BodyHash:   cfg.Show.Hash,
			HeaderHash: cfg.Show.Hash,
			Favicon:    cfg.Show.Favicon,
			LineCount:  cfg.Show.LineCount,
			WordCount:  cfg.Show.WordCount,
		},
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	// 7. Build the sink
	sink, closeSink, err := buildSink(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}
	defer closeSink()

	// 8. Rate limiter (nil = unlimited)
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.New(float64(cfg.RateLimit), cfg.RateLimit)
	}

	// 9. Run the worker pool
	presenter := ui.NewPresenter(version, cfg.Silent)
	presenter.Start(len(candidates), cfg.Workers)

	pool := runner.New(runner.Config{
		Workers: cfg.Workers,
		Limiter: limiter,
		Delay:   cfg.Delay(),
		Logger:  logger,
	}, pipeline, sink)

	summary := pool.Run(ctx, candidates)

	if err := closeSink(); err != nil {
		logger.Err(err, "phase", "output-close")
	}

	// 10. Summary, or interrupt notice when a signal cut the run short
	select {
	case <-interrupted:
		presenter.Interrupted()
		return exitInterrupted
	default:
	}

	presenter.Finish(summary.Attempted, summary.Succeeded, summary.Elapsed)
	return exitOK
}

// loadTargets gathers raw targets from -u flags, the -l file, and a
// piped stdin, in that order. Blank lines and #-comments are dropped.
func loadTargets(cfg config.Config) ([]string, error) {
	targets := make([]string, 0, len(cfg.Targets))
	targets = append(targets, cfg.Targets...)

	if cfg.ListFile != "" {
		f, err := os.Open(cfg.ListFile)
		if err != nil {
			return nil, fmt.Errorf("target list %s: %w", cfg.ListFile, err)
		}
		defer f.Close()
		lines, err := scanTargets(f)
		if err != nil {
			return nil, fmt.Errorf("target list %s: %w", cfg.ListFile, err)
		}
		targets = append(targets, lines...)
	}

	// stdin counts only when piped, so an interactive run without
	// targets errors out instead of hanging.
	if len(targets) == 0 {
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			lines, err := scanTargets(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("stdin: %w", err)
			}
			targets = append(targets, lines...)
		}
	}

	return targets, nil
}

func scanTargets(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// buildSink resolves the output destination and representation. The
// returned close function is idempotent.
func buildSink(cfg config.Config) (output.Sink, func() error, error) {
	format := output.FormatPlain
	switch {
	case cfg.JSON:
		format = output.FormatJSON
	case cfg.CSV:
		format = output.FormatCSV
	}

	opts := output.Options{
		Verbose: cfg.Verbose,
		Color:   cfg.OutputPath == "",
		Fields:  displayFields(cfg.Show),
	}

	if cfg.OutputPath == "" {
		sink := output.New(os.Stdout, format, opts)
		return sink, onceClose(sink.Close), nil
	}

	// File output drops colors; plain format degrades to a bare URL
	// list, the shape downstream tools consume.
	if format == output.FormatPlain {
		format = output.FormatURLList
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("output file %s: %w", cfg.OutputPath, err)
	}

	sink := output.New(f, format, opts)
	return sink, onceClose(func() error {
		if err := sink.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}), nil
}

func onceClose(fn func() error) func() error {
	done := false
	return func() error {
		if done {
			return nil
		}
		done = true
		return fn()
	}
}

func displayFields(s config.Show) output.Fields {
	return output.Fields{
		StatusCode:    s.StatusCode,
		ContentLength: s.ContentLength,
		ContentType:   s.ContentType,
		Title:         s.Title,
		Server:        s.Server,
		ResponseTime:  s.ResponseTime,
		Location:      s.Location,
		LineCount:     s.LineCount,
		WordCount:     s.WordCount,
		BodyHash:      s.Hash,
		Favicon:       s.Favicon,
	}
}

// rootContextWithSignals creates a root context cancelled on SIGINT or
// SIGTERM. The interrupted channel is closed when a signal arrived, so
// the caller can distinguish a clean finish from a cut-short run.
func rootContextWithSignals() (context.Context, <-chan struct{}, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	interrupted := make(chan struct{})

	go func() {
		select {
		case <-ch:
			close(interrupted)
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, interrupted, cleanup
}

// internal/platform/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"probex/internal/platform/errors"
	"probex/internal/platform/validator"
)

// Show selects which response-derived fields are probed and rendered.
type Show struct {
	StatusCode    bool
	ContentLength bool
	ContentType   bool
	Title         bool
	Server        bool
	ResponseTime  bool
	Location      bool
	LineCount     bool
	WordCount     bool
	Hash          bool // body md5+sha256 and canonical header hash
	Favicon       bool
}

// Config is the full run configuration. Precedence, lowest to
// highest: defaults, YAML config file, PROBEX_* environment, flags.
type Config struct {
	// Input
	Targets  []string
	ListFile string
	Ports    []int

	// Probes
	Show Show

	// Request
	Headers         []string // raw "Key: Value" pairs
	TimeoutS        int
	ProxyURL        string
	Insecure        bool
	FollowRedirects bool
	MaxRedirects    int
	UserAgent       string

	// Performance
	Workers   int
	RateLimit int     // requests per second, 0 = unlimited
	DelayS    float64 // fixed inter-request pause per worker

	// Output
	OutputPath string
	JSON       bool
	CSV        bool
	Verbose    bool
	Silent     bool

	// Misc
	ConfigFile   string
	PrintVersion bool
}

// fileConfig is the YAML config file schema, a subset of Config.
type fileConfig struct {
	Ports           []int    `yaml:"ports"`
	TimeoutS        *int     `yaml:"timeout"`
	ProxyURL        *string  `yaml:"proxy"`
	Insecure        *bool    `yaml:"insecure"`
	FollowRedirects *bool    `yaml:"follow_redirects"`
	MaxRedirects    *int     `yaml:"max_redirects"`
	UserAgent       *string  `yaml:"user_agent"`
	Workers         *int     `yaml:"workers"`
	RateLimit       *int     `yaml:"rate_limit"`
	DelayS          *float64 `yaml:"delay"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Ports:        []int{80, 443},
		TimeoutS:     10,
		MaxRedirects: 10,
		UserAgent:    "probex/1.0",
		Workers:      50,
	}
}

// Load parses args into a Config, layering the config file and the
// environment underneath explicitly-set flags.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("probex", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	bindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			PrintHelp()
		}
		return cfg, err
	}

	// A config file may also come from the environment.
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("PROBEX_CONFIG")
	}

	// Environment fills in what flags left untouched; the YAML file
	// sits underneath both.
	applyEnv(&cfg, fs)
	if cfg.ConfigFile != "" {
		if err := applyFile(&cfg, fs, cfg.ConfigFile); err != nil {
			return cfg, err
		}
	}

	normalize(&cfg)
	return cfg, nil
}

func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	// Input
	fs.StringArrayVarP(&cfg.Targets, "target", "u", nil, "target to probe (repeatable)")
	fs.StringVarP(&cfg.ListFile, "list", "l", "", "file containing targets, one per line")
	fs.IntSliceVarP(&cfg.Ports, "ports", "p", cfg.Ports, "ports to probe")

	// Probes
	fs.BoolVar(&cfg.Show.StatusCode, "status-code", false, "display status code")
	fs.BoolVar(&cfg.Show.ContentLength, "content-length", false, "display content length")
	fs.BoolVar(&cfg.Show.ContentType, "content-type", false, "display content type")
	fs.BoolVar(&cfg.Show.Title, "title", false, "display page title")
	fs.BoolVar(&cfg.Show.Server, "server", false, "display server header")
	fs.BoolVar(&cfg.Show.ResponseTime, "response-time", false, "display response time")
	fs.BoolVar(&cfg.Show.Location, "location", false, "display redirect location")
	fs.BoolVar(&cfg.Show.LineCount, "line-count", false, "display body line count")
	fs.BoolVar(&cfg.Show.WordCount, "word-count", false, "display body word count")
	fs.BoolVar(&cfg.Show.Hash, "hash", false, "compute body and header hashes")
	fs.BoolVar(&cfg.Show.Favicon, "favicon", false, "compute favicon fingerprint")

	// Request
	fs.StringArrayVarP(&cfg.Headers, "header", "H", nil, "custom header 'Key: Value' (repeatable)")
	fs.IntVar(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "request timeout in seconds")
	fs.StringVar(&cfg.ProxyURL, "proxy", "", "HTTP(S) proxy URL (falls back to HTTP_PROXY/HTTPS_PROXY)")
	fs.BoolVar(&cfg.Insecure, "insecure", false, "skip TLS certificate verification")
	fs.BoolVar(&cfg.FollowRedirects, "follow-redirects", false, "follow HTTP redirects")
	fs.IntVar(&cfg.MaxRedirects, "max-redirects", cfg.MaxRedirects, "maximum redirects to follow")
	fs.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "custom User-Agent string")

	// Performance
	fs.IntVarP(&cfg.Workers, "threads", "t", cfg.Workers, "number of concurrent workers")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "maximum requests per second (0 = unlimited)")
	fs.Float64Var(&cfg.DelayS, "delay", 0, "delay between requests in seconds")

	// Output
	fs.StringVarP(&cfg.OutputPath, "output", "o", "", "write results to file")
	fs.BoolVarP(&cfg.JSON, "json", "j", false, "output one JSON object per line")
	fs.BoolVar(&cfg.CSV, "csv", false, "output CSV rows")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "include failed probes in output")
	fs.BoolVarP(&cfg.Silent, "silent", "s", false, "suppress banner and summary")

	// Misc
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "print version and exit")
}

// applyEnv fills fields whose flags were not explicitly set.
func applyEnv(cfg *Config, fs *pflag.FlagSet) {
	setInt := func(flag, env string, dst *int) {
		if fs.Changed(flag) {
			return
		}
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	setStr := func(flag, env string, dst *string) {
		if fs.Changed(flag) {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	setInt("threads", "PROBEX_THREADS", &cfg.Workers)
	setInt("timeout", "PROBEX_TIMEOUT", &cfg.TimeoutS)
	setInt("rate-limit", "PROBEX_RATE_LIMIT", &cfg.RateLimit)
	setInt("max-redirects", "PROBEX_MAX_REDIRECTS", &cfg.MaxRedirects)
	setStr("user-agent", "PROBEX_USER_AGENT", &cfg.UserAgent)
	setStr("proxy", "PROBEX_PROXY_URL", &cfg.ProxyURL)
	setStr("output", "PROBEX_OUTPUT", &cfg.OutputPath)

	if !fs.Changed("ports") {
		if v := os.Getenv("PROBEX_PORTS"); v != "" {
			if ports, err := ParsePorts(strings.Split(v, ",")); err == nil {
				cfg.Ports = ports
			}
		}
	}
}

// applyFile layers YAML values under anything set by flag or env.
func applyFile(cfg *Config, fs *pflag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "config file %s", path)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "config file %s", path)
	}

	fromEnv := func(env string) bool { return os.Getenv(env) != "" }

	if len(fc.Ports) > 0 && !fs.Changed("ports") && !fromEnv("PROBEX_PORTS") {
		cfg.Ports = fc.Ports
	}
	if fc.TimeoutS != nil && !fs.Changed("timeout") && !fromEnv("PROBEX_TIMEOUT") {
		cfg.TimeoutS = *fc.TimeoutS
	}
	if fc.ProxyURL != nil && !fs.Changed("proxy") && !fromEnv("PROBEX_PROXY_URL") {
		cfg.ProxyURL = *fc.ProxyURL
	}
	if fc.Insecure != nil && !fs.Changed("insecure") {
		cfg.Insecure = *fc.Insecure
	}
	if fc.FollowRedirects != nil && !fs.Changed("follow-redirects") {
		cfg.FollowRedirects = *fc.FollowRedirects
	}
	if fc.MaxRedirects != nil && !fs.Changed("max-redirects") && !fromEnv("PROBEX_MAX_REDIRECTS") {
		cfg.MaxRedirects = *fc.MaxRedirects
	}
	if fc.UserAgent != nil && !fs.Changed("user-agent") && !fromEnv("PROBEX_USER_AGENT") {
		cfg.UserAgent = *fc.UserAgent
	}
	if fc.Workers != nil && !fs.Changed("threads") && !fromEnv("PROBEX_THREADS") {
		cfg.Workers = *fc.Workers
	}
	if fc.RateLimit != nil && !fs.Changed("rate-limit") && !fromEnv("PROBEX_RATE_LIMIT") {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.DelayS != nil && !fs.Changed("delay") {
		cfg.DelayS = *fc.DelayS
	}

	return nil
}

func normalize(c *Config) {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.MaxRedirects < 0 {
		c.MaxRedirects = 0
	}
	if c.DelayS < 0 {
		c.DelayS = 0
	}
	if c.UserAgent == "" {
		c.UserAgent = "probex/1.0"
	}
}

// Validate detects fatal configuration errors before any probing
// starts. A failure here aborts the run with a non-zero exit status.
func (c Config) Validate() error {
	for _, p := range c.Ports {
		if !validator.IsPort(p) {
			return errors.Wrapf(errors.ErrInvalidPort, "%d", p)
		}
	}
	if c.TimeoutS <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "timeout must be positive")
	}
	if c.RateLimit < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "rate limit must be non-negative")
	}
	if c.JSON && c.CSV {
		return errors.Wrap(errors.ErrInvalidInput, "--json and --csv are mutually exclusive")
	}
	if c.ListFile != "" {
		if _, err := os.Stat(c.ListFile); err != nil {
			return errors.Wrapf(err, "target list %s", c.ListFile)
		}
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutS) * time.Second
}

// Delay returns the inter-request pause as a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayS * float64(time.Second))
}

// ParsePorts converts string port tokens to validated ints.
func ParsePorts(tokens []string) ([]int, error) {
	ports := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		p, err := strconv.Atoi(tok)
		if err != nil || !validator.IsPort(p) {
			return nil, errors.Wrapf(errors.ErrInvalidPort, "%s", tok)
		}
		ports = append(ports, p)
	}
	return ports, nil
}

// ParseHeaders converts raw "Key: Value" pairs to a header map.
// Malformed pairs are skipped and reported as warnings, matching the
// forgiving behavior users expect from repeatable -H flags.
func ParseHeaders(raw []string) (map[string]string, []string) {
	headers := make(map[string]string, len(raw))
	var warnings []string
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			warnings = append(warnings, fmt.Sprintf("invalid header format %q, skipping", h))
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, warnings
}

// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"probex/internal/platform/errors"
	"probex/internal/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Workers, 50, "default workers")
	testutil.AssertEqual(t, cfg.TimeoutS, 10, "default timeout")
	testutil.AssertEqual(t, cfg.MaxRedirects, 10, "default max redirects")
	testutil.AssertEqual(t, cfg.UserAgent, "probex/1.0", "default user agent")
	testutil.AssertEqual(t, cfg.RateLimit, 0, "unlimited rate by default")
	testutil.AssertEqual(t, len(cfg.Ports), 2, "two default ports")
	testutil.AssertEqual(t, cfg.Ports[0], 80, "port 80 first")
	testutil.AssertEqual(t, cfg.Ports[1], 443, "port 443 second")
	testutil.AssertFalse(t, cfg.FollowRedirects, "redirects off by default")
	testutil.AssertFalse(t, cfg.Insecure, "tls verification on by default")
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-u", "example.com",
		"-u", "test.example.com",
		"-p", "80,8080",
		"--title", "--status-code",
		"-H", "X-Token: abc",
		"--timeout", "5",
		"--follow-redirects",
		"-t", "20",
		"--rate-limit", "10",
		"--delay", "0.5",
		"--json",
		"-v",
	})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, len(cfg.Targets), 2, "repeatable -u collects targets")
	testutil.AssertEqual(t, cfg.Targets[0], "example.com", "first target")
	testutil.AssertEqual(t, len(cfg.Ports), 2, "port list parsed")
	testutil.AssertEqual(t, cfg.Ports[1], 8080, "custom port")
	testutil.AssertTrue(t, cfg.Show.Title, "title probe on")
	testutil.AssertTrue(t, cfg.Show.StatusCode, "status probe on")
	testutil.AssertEqual(t, cfg.TimeoutS, 5, "timeout flag")
	testutil.AssertTrue(t, cfg.FollowRedirects, "follow redirects flag")
	testutil.AssertEqual(t, cfg.Workers, 20, "threads flag")
	testutil.AssertEqual(t, cfg.RateLimit, 10, "rate limit flag")
	testutil.AssertEqual(t, cfg.Delay(), 500*time.Millisecond, "delay converts to duration")
	testutil.AssertTrue(t, cfg.JSON, "json flag")
	testutil.AssertTrue(t, cfg.Verbose, "verbose flag")
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("PROBEX_THREADS", "25")
	t.Setenv("PROBEX_USER_AGENT", "env-agent/1.0")
	t.Setenv("PROBEX_PORTS", "8000,9000")

	t.Run("env fills unset flags", func(t *testing.T) {
		cfg, err := Load(nil)
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.Workers, 25, "workers from env")
		testutil.AssertEqual(t, cfg.UserAgent, "env-agent/1.0", "user agent from env")
		testutil.AssertEqual(t, cfg.Ports[0], 8000, "ports from env")
	})

	t.Run("explicit flags beat env", func(t *testing.T) {
		cfg, err := Load([]string{"-t", "5", "--user-agent", "flag-agent/1.0"})
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.Workers, 5, "flag wins over env")
		testutil.AssertEqual(t, cfg.UserAgent, "flag-agent/1.0", "flag wins over env")
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probex.yaml")
	yaml := "timeout: 3\nworkers: 7\nuser_agent: file-agent/1.0\nports:\n  - 8080\n"
	testutil.AssertNoError(t, os.WriteFile(path, []byte(yaml), 0o644), "write config file")

	t.Run("file fills unset values", func(t *testing.T) {
		cfg, err := Load([]string{"--config", path})
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.TimeoutS, 3, "timeout from file")
		testutil.AssertEqual(t, cfg.Workers, 7, "workers from file")
		testutil.AssertEqual(t, cfg.UserAgent, "file-agent/1.0", "user agent from file")
		testutil.AssertEqual(t, cfg.Ports[0], 8080, "ports from file")
	})

	t.Run("flags beat the file", func(t *testing.T) {
		cfg, err := Load([]string{"--config", path, "--timeout", "30"})
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.TimeoutS, 30, "flag wins over file")
		testutil.AssertEqual(t, cfg.Workers, 7, "untouched value still from file")
	})

	t.Run("env beats the file", func(t *testing.T) {
		t.Setenv("PROBEX_TIMEOUT", "15")
		cfg, err := Load([]string{"--config", path})
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.TimeoutS, 15, "env wins over file")
	})

	t.Run("missing file is fatal", func(t *testing.T) {
		_, err := Load([]string{"--config", filepath.Join(dir, "absent.yaml")})
		testutil.AssertError(t, err, "missing config file should fail")
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		testutil.AssertNoError(t, os.WriteFile(bad, []byte("timeout: [oops"), 0o644), "write bad file")
		_, err := Load([]string{"--config", bad})
		testutil.AssertError(t, err, "malformed config file should fail")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	t.Run("defaults validate", func(t *testing.T) {
		testutil.AssertNoError(t, valid.Validate(), "defaults should pass")
	})

	t.Run("out of range port", func(t *testing.T) {
		cfg := valid
		cfg.Ports = []int{70000}
		err := cfg.Validate()
		testutil.AssertError(t, err, "bad port should fail")
		testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidPort), "wraps ErrInvalidPort")
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := valid
		cfg.TimeoutS = 0
		testutil.AssertError(t, cfg.Validate(), "zero timeout should fail")
	})

	t.Run("json and csv exclusive", func(t *testing.T) {
		cfg := valid
		cfg.JSON = true
		cfg.CSV = true
		testutil.AssertError(t, cfg.Validate(), "both formats should fail")
	})

	t.Run("unreadable list file", func(t *testing.T) {
		cfg := valid
		cfg.ListFile = "/nonexistent/targets.txt"
		testutil.AssertError(t, cfg.Validate(), "missing list file should fail")
	})
}

func TestParsePorts(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		ports, err := ParsePorts([]string{"80", " 443 ", "8080"})
		testutil.AssertNoError(t, err, "parse should succeed")
		testutil.AssertEqual(t, len(ports), 3, "all ports parsed")
		testutil.AssertEqual(t, ports[1], 443, "whitespace trimmed")
	})

	t.Run("empty tokens skipped", func(t *testing.T) {
		ports, err := ParsePorts([]string{"80", "", "443"})
		testutil.AssertNoError(t, err, "parse should succeed")
		testutil.AssertEqual(t, len(ports), 2, "blank token skipped")
	})

	t.Run("non-numeric token", func(t *testing.T) {
		_, err := ParsePorts([]string{"http"})
		testutil.AssertError(t, err, "non-numeric port should fail")
		testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidPort), "wraps ErrInvalidPort")
	})

	t.Run("out of range token", func(t *testing.T) {
		_, err := ParsePorts([]string{"99999"})
		testutil.AssertError(t, err, "out of range port should fail")
	})
}

func TestParseHeaders(t *testing.T) {
	t.Run("well-formed pairs", func(t *testing.T) {
		headers, warnings := ParseHeaders([]string{"X-Token: abc", "Accept:application/json"})
		testutil.AssertEqual(t, len(warnings), 0, "no warnings")
		testutil.AssertEqual(t, headers["X-Token"], "abc", "value trimmed")
		testutil.AssertEqual(t, headers["Accept"], "application/json", "no-space form accepted")
	})

	t.Run("malformed pairs are skipped with warnings", func(t *testing.T) {
		headers, warnings := ParseHeaders([]string{"no-colon-here", "X-Good: yes", ": empty-key"})
		testutil.AssertEqual(t, len(headers), 1, "only valid pair kept")
		testutil.AssertEqual(t, headers["X-Good"], "yes", "valid pair value")
		testutil.AssertEqual(t, len(warnings), 2, "one warning per bad pair")
	})
}

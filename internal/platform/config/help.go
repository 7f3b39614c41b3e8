// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
probex - Fast HTTP/HTTPS Probing Engine

USAGE:
  probex -u <target> [options]
  probex -l targets.txt [options]
  cat targets.txt | probex [options]

IMPORTANT:
  Use double dash (--) for long flag names: --threads, --timeout, --json
  Use single dash (-) for short flags: -u, -t, -o

INPUT OPTIONS:
  -u, --target string      Target to probe: host, host:port, or full URL (repeatable)
  -l, --list string        File with targets, one per line (# comments allowed)
  -p, --ports ints         Ports to probe (default: 80,443)

  With no -u or -l, targets are read from a piped stdin.

PROBE OPTIONS:
  --status-code            Display response status code
  --content-length         Display response body length
  --content-type           Display Content-Type header
  --title                  Display HTML page title
  --server                 Display Server header
  --response-time          Display response time
  --location               Display redirect target
  --line-count             Display body line count
  --word-count             Display body word count
  --hash                   Compute body (md5, sha256) and header hashes
  --favicon                Compute the favicon mmh3 fingerprint

REQUEST OPTIONS:
  -H, --header strings     Custom header as 'Key: Value' (repeatable)
  --timeout int            Request timeout in seconds (default: 10)
  --proxy string           HTTP(S) proxy URL (falls back to HTTP_PROXY/HTTPS_PROXY)
  --insecure               Skip TLS certificate verification
  --follow-redirects       Follow HTTP redirects
  --max-redirects int      Maximum redirects to follow (default: 10)
  --user-agent string      Custom User-Agent (default: "probex/1.0")

PERFORMANCE OPTIONS:
  -t, --threads int        Concurrent workers (default: 50)
  --rate-limit int         Maximum requests per second, 0 = unlimited
  --delay float            Delay between requests in seconds

OUTPUT OPTIONS:
  -o, --output string      Write results to file (URL list unless --json/--csv)
  -j, --json               One JSON object per line
  --csv                    CSV rows with a header
  -v, --verbose            Include failed probes in output
  -s, --silent             Suppress banner and summary

INFO:
  --config string          YAML config file
  --version                Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Probe one host with metadata:
    probex -u example.com --status-code --title

  Probe a list over custom ports:
    probex -l hosts.txt -p 80,443,8080,8443

  Machine-readable stream, failures included:
    probex -l hosts.txt --json -v -o results.jsonl

  Gentle scan through a proxy:
    probex -l hosts.txt --rate-limit 10 --proxy http://127.0.0.1:8080

ENVIRONMENT VARIABLES:
  Most knobs can be set via environment with the PROBEX_ prefix:

  PROBEX_THREADS=100           Number of workers
  PROBEX_TIMEOUT=5             Timeout in seconds
  PROBEX_RATE_LIMIT=50         Requests per second
  PROBEX_MAX_REDIRECTS=5       Redirect bound
  PROBEX_USER_AGENT=...        User-Agent string
  PROBEX_PROXY_URL=http://...  Proxy URL
  PROBEX_PORTS=80,443,8080     Port list
  PROBEX_OUTPUT=/path          Output file
  PROBEX_CONFIG=/path          Config file
  PROBEX_LOG_LEVEL=debug       Log verbosity

  Note: CLI flags override environment variables; both override the
  YAML config file.

EXIT STATUS:
  0    Run completed (individual probe failures do not affect it)
  2    Fatal configuration error before probing started
  130  Interrupted by SIGINT
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("probex %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}

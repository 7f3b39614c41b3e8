// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Target validators

var hostRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// IsHostname reports whether s is a plausible hostname.
// Supports internationalized domains in punycode form.
func IsHostname(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	return hostRegex.MatchString(s)
}

// IsHost reports whether s is a probe-able host: a hostname or an IP
// address, optionally with a :port suffix.
func IsHost(s string) bool {
	host := s
	if h, port, err := net.SplitHostPort(s); err == nil {
		if !IsPort(atoiSafe(port)) {
			return false
		}
		host = h
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return IsHostname(host)
}

// NormalizeTarget normalizes a raw target to its canonical form.
func NormalizeTarget(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	if !strings.Contains(s, "://") {
		s = strings.ToLower(s)
	}
	return s
}

// Network validators

// IsIP reports whether s is a valid IPv4 or IPv6 address.
func IsIP(s string) bool {
	return net.ParseIP(s) != nil
}

// IsPort reports whether port is within the valid range [1,65535].
func IsPort(port int) bool {
	return port >= 1 && port <= 65535
}

// URL validators

// IsURL reports whether s parses as an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 65535 {
			return 0
		}
	}
	return n
}

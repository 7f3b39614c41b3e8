// internal/core/domain/candidate.go
package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"probex/internal/platform/errors"
)

// RawTarget is a target string exactly as supplied by the caller: a
// bare host, a host:port, or a full URL. It is parsed, never mutated.
type RawTarget string

// HasScheme reports whether the raw target already embeds a scheme,
// which bypasses port/scheme expansion.
func (r RawTarget) HasScheme() bool {
	return strings.Contains(string(r), "://")
}

// CandidateURL is one fully-resolved, schemed, ported URL derived from
// a raw target, ready to probe. Port 0 means the scheme default is
// implied and no port suffix is rendered.
type CandidateURL struct {
	Scheme string
	Host   string
	Port   int
	Path   string

	// literal holds the original URL text for targets supplied as full
	// URLs, preserved byte-for-byte.
	literal string
}

// NewCandidate builds a candidate from its parts.
func NewCandidate(scheme, host string, port int) CandidateURL {
	return CandidateURL{Scheme: scheme, Host: host, Port: port}
}

// ParseCandidate parses a literal URL target into a candidate. The
// original text is kept and rendered as-is by URL().
func ParseCandidate(raw string) (CandidateURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return CandidateURL{}, errors.Wrapf(errors.ErrInvalidTarget, "%s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return CandidateURL{}, errors.Wrapf(errors.ErrInvalidTarget, "unsupported scheme %q in %s", u.Scheme, raw)
	}
	if u.Host == "" {
		return CandidateURL{}, errors.Wrapf(errors.ErrInvalidTarget, "missing host in %s", raw)
	}

	port := 0
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return CandidateURL{}, errors.Wrapf(errors.ErrInvalidTarget, "bad port in %s", raw)
		}
	}

	return CandidateURL{
		Scheme:  u.Scheme,
		Host:    u.Hostname(),
		Port:    port,
		Path:    u.Path,
		literal: raw,
	}, nil
}

// URL renders the candidate as the URL string handed to the prober.
// Literal targets render exactly as supplied.
func (c CandidateURL) URL() string {
	if c.literal != "" {
		return c.literal
	}
	if c.Port != 0 && c.Port != defaultPort(c.Scheme) {
		return fmt.Sprintf("%s://%s:%d%s", c.Scheme, c.Host, c.Port, c.Path)
	}
	return fmt.Sprintf("%s://%s%s", c.Scheme, c.Host, c.Path)
}

func (c CandidateURL) String() string { return c.URL() }

func defaultPort(scheme string) int {
	if scheme == "https" {
		return 443
	}
	return 80
}

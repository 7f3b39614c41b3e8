// Package expand turns raw target strings, a port list, and the scheme
// policy into an ordered, deduplicated sequence of candidate URLs.
package expand

import (
	"net"
	"strconv"

	"probex/internal/core/domain"
	"probex/internal/platform/errors"
	"probex/internal/platform/validator"
)

// DefaultPorts is used when no port list is configured.
var DefaultPorts = []int{80, 443}

// schemes in fixed priority order: https is tried before http.
var schemes = []string{"https", "http"}

// Expand derives the candidate URL sequence from raw targets crossed
// with the port list. It is a pure function: same inputs, same output
// sequence. Any unparseable target or out-of-range port fails the
// whole expansion; this is the fatal configuration tier, detected
// before any probing starts.
func Expand(raw []string, ports []int) ([]domain.CandidateURL, error) {
	if len(ports) == 0 {
		ports = DefaultPorts
	}
	for _, p := range ports {
		if !validator.IsPort(p) {
			return nil, errors.Wrapf(errors.ErrInvalidPort, "%d", p)
		}
	}

	seen := make(map[string]struct{})
	var out []domain.CandidateURL

	add := func(c domain.CandidateURL) {
		key := c.URL()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	for _, r := range raw {
		target := domain.RawTarget(validator.NormalizeTarget(r))
		if target == "" {
			continue
		}

		// A full URL bypasses expansion entirely.
		if target.HasScheme() {
			c, err := domain.ParseCandidate(string(target))
			if err != nil {
				return nil, err
			}
			add(c)
			continue
		}

		if !validator.IsHost(string(target)) {
			return nil, errors.Wrapf(errors.ErrInvalidTarget, "%s", r)
		}

		// host:port pins the port; only the scheme is expanded.
		if host, portStr, err := net.SplitHostPort(string(target)); err == nil {
			port, _ := strconv.Atoi(portStr)
			for _, scheme := range schemes {
				add(domain.NewCandidate(scheme, host, port))
			}
			continue
		}

		// Bare host: https before http, ports in the order given. A
		// scheme's own default port collapses to scheme://host; the
		// opposite scheme's default is suppressed, so 80 and 443 each
		// contribute their canonical form exactly once.
		for _, scheme := range schemes {
			for _, port := range ports {
				if crossDefault(scheme, port) {
					continue
				}
				add(domain.NewCandidate(scheme, string(target), port))
			}
		}
	}

	return out, nil
}

// crossDefault reports whether port is the default of the opposite
// scheme (https on 80, http on 443), combinations that collapse away
// under the canonical-form rule.
func crossDefault(scheme string, port int) bool {
	return (scheme == "https" && port == 80) || (scheme == "http" && port == 443)
}

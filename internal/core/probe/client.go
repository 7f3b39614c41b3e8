// internal/core/probe/client.go
package probe

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"probex/internal/platform/errors"
)

// newClient builds the HTTP client shared by all workers. Redirects
// are disabled on the client itself; the pipeline follows hops
// manually so it can bound them and detect loops. The transport pools
// connections across workers.
func newClient(cfg Config) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.PoolSize * 2,
		MaxIdleConnsPerHost: cfg.PoolSize,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Insecure,
		},
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "proxy url %q", cfg.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

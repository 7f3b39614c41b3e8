// internal/core/probe/favicon.go
package probe

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spaolacci/murmur3"
)

const (
	// faviconTimeout is a fixed budget for the favicon side-fetch,
	// independent of the main request timeout.
	faviconTimeout = 5 * time.Second

	// faviconMaxBytes bounds the favicon read.
	faviconMaxBytes = 1 << 20

	// faviconWrapWidth is the base64 line width the fingerprint
	// convention expects; Shodan and httpx wrap at 76 columns.
	faviconWrapWidth = 76
)

// faviconHash fetches the conventional favicon path resolved against
// the final response URL and fingerprints it. The second return is
// false when no favicon is retrievable.
func (p *Pipeline) faviconHash(ctx context.Context, finalURL *url.URL) (int32, bool) {
	faviconURL := finalURL.ResolveReference(&url.URL{Path: "/favicon.ico"})

	fetchCtx, cancel := context.WithTimeout(ctx, faviconTimeout)
	defer cancel()

	resp, err := p.do(fetchCtx, faviconURL.String())
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, drainBytes))
		return 0, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, faviconMaxBytes))
	if err != nil || len(data) == 0 {
		return 0, false
	}

	return FingerprintFavicon(data), true
}

// FingerprintFavicon computes the 32-bit murmur3 fingerprint over the
// wrapped base64 encoding of the favicon bytes. This matches the
// convention used by internet-wide scanners, so the value can be fed
// straight into a http.favicon.hash search.
func FingerprintFavicon(data []byte) int32 {
	encoded := base64.StdEncoding.EncodeToString(data)

	var wrapped []byte
	for i := 0; i < len(encoded); i += faviconWrapWidth {
		end := i + faviconWrapWidth
		if end > len(encoded) {
			end = len(encoded)
		}
		wrapped = append(wrapped, encoded[i:end]...)
		wrapped = append(wrapped, '\n')
	}

	return int32(murmur3.Sum32(wrapped))
}

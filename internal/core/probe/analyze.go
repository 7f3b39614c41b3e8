// internal/core/probe/analyze.go
package probe

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"probex/internal/core/domain"
)

// analyze populates the outcome from the final response. It runs only
// CPU-bound work (plus the optional favicon fetch) and cannot fail the
// probe: fields whose probes were not requested stay null.
func (p *Pipeline) analyze(ctx context.Context, out *domain.ProbeOutcome, resp *http.Response, body []byte, location string, elapsed float64) {
	status := resp.StatusCode
	out.StatusCode = &status

	contentType := resp.Header.Get("Content-Type")
	out.ContentType = &contentType
	out.Server = resp.Header.Get("Server")
	out.Location = location

	// Decoded body length, not the declared header value: the two
	// diverge after transparent decompression.
	length := len(body)
	out.ContentLength = &length

	out.ResponseTime = &elapsed

	if p.cfg.Probes.Title && strings.Contains(strings.ToLower(contentType), "text/html") {
		if title, ok := extractTitle(body); ok {
			out.Title = &title
		}
	}

	if p.cfg.Probes.BodyHash {
		md5sum := md5.Sum(body)
		sha := sha256.Sum256(body)
		out.BodyHash = &domain.BodyHash{
			MD5:    hex.EncodeToString(md5sum[:]),
			SHA256: hex.EncodeToString(sha[:]),
		}
	}

	if p.cfg.Probes.HeaderHash {
		h := hashHeaders(resp.Header)
		out.HeaderHash = &h
	}

	if p.cfg.Probes.Favicon {
		if hash, ok := p.faviconHash(ctx, resp.Request.URL); ok {
			out.FaviconHash = &hash
		}
	}

	if p.cfg.Probes.LineCount {
		lines := countLines(body)
		out.LineCount = &lines
	}
	if p.cfg.Probes.WordCount {
		words := len(strings.Fields(string(body)))
		out.WordCount = &words
	}

	out.ProbeStatus = true
}

// extractTitle returns the text of the first well-formed title
// element, entity-decoded and whitespace-collapsed. The second return
// is false when no title element exists.
func extractTitle(body []byte) (string, bool) {
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			var sb strings.Builder
			for {
				switch z.Next() {
				case html.TextToken:
					sb.Write(z.Text())
				case html.EndTagToken, html.ErrorToken:
					return strings.Join(strings.Fields(sb.String()), " "), true
				}
			}
		}
	}
}

// hashHeaders digests a canonical form of the response headers: names
// lower-cased and sorted, values joined in order. The result is
// invariant to header emission order.
func hashHeaders(header http.Header) string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(strings.Join(header.Values(name), ","))
		sb.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// countLines counts text lines the way splitlines does: a trailing
// newline does not open an extra empty line.
func countLines(body []byte) int {
	if len(body) == 0 {
		return 0
	}
	n := bytes.Count(body, []byte{'\n'})
	if body[len(body)-1] != '\n' {
		n++
	}
	return n
}

// internal/adapters/output/csv.go
package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"probex/internal/core/domain"
)

// csvColumns is the tabular field set, one column per wire-schema
// field, in the same order the JSON representation emits them.
var csvColumns = []string{
	"url", "status_code", "title", "content_length", "content_type",
	"server", "response_time", "ip", "cname", "webserver", "websocket",
	"http2", "tls", "body_hash_md5", "body_hash_sha256", "header_hash",
	"favicon_hash", "line_count", "word_count", "location", "asn",
	"cdn", "probe_status", "error",
}

// CSVWriter emits a header row followed by one row per outcome.
type CSVWriter struct {
	mu          sync.Mutex
	w           *csv.Writer
	opts        Options
	wroteHeader bool
}

// NewCSVWriter creates a CSV sink.
func NewCSVWriter(w io.Writer, opts Options) *CSVWriter {
	return &CSVWriter{
		w:    csv.NewWriter(w),
		opts: opts,
	}
}

// Emit writes one row, flushing through so rows stream out as probes
// complete. Failed probes are included only in verbose mode.
func (c *CSVWriter) Emit(out *domain.ProbeOutcome) error {
	if !out.ProbeStatus && !c.opts.Verbose {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.wroteHeader {
		if err := c.w.Write(csvColumns); err != nil {
			return err
		}
		c.wroteHeader = true
	}

	if err := c.w.Write(csvRow(out)); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes any buffered rows.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	return c.w.Error()
}

func csvRow(out *domain.ProbeOutcome) []string {
	var md5sum, sha string
	if out.BodyHash != nil {
		md5sum = out.BodyHash.MD5
		sha = out.BodyHash.SHA256
	}

	return []string{
		out.URL,
		intCell(out.StatusCode),
		strCell(out.Title),
		intCell(out.ContentLength),
		strCell(out.ContentType),
		out.Server,
		floatCell(out.ResponseTime),
		strCell(out.IP),
		strCell(out.CNAME),
		strCell(out.Webserver),
		strconv.FormatBool(out.Websocket),
		strconv.FormatBool(out.HTTP2),
		strconv.FormatBool(out.TLS),
		md5sum,
		sha,
		strCell(out.HeaderHash),
		int32Cell(out.FaviconHash),
		intCell(out.LineCount),
		intCell(out.WordCount),
		out.Location,
		strCell(out.ASN),
		strCell(out.CDN),
		strconv.FormatBool(out.ProbeStatus),
		strCell(out.Error),
	}
}

func strCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func int32Cell(n *int32) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(int64(*n), 10)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 6, 64)
}

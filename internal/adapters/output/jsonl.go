// internal/adapters/output/jsonl.go
package output

import (
	"encoding/json"
	"io"
	"sync"

	"probex/internal/core/domain"
)

// JSONWriter emits one JSON object per line per outcome. Optional
// fields serialize as explicit nulls so consumers can distinguish
// "not probed" from empty.
type JSONWriter struct {
	mu   sync.Mutex
	enc  *json.Encoder
	opts Options
}

// NewJSONWriter creates a JSONL sink.
func NewJSONWriter(w io.Writer, opts Options) *JSONWriter {
	return &JSONWriter{
		enc:  json.NewEncoder(w),
		opts: opts,
	}
}

// Emit writes one record. Failed probes are included only in verbose
// mode; they carry the error category so callers can tell "probed and
// unreachable" from "not probed".
func (j *JSONWriter) Emit(out *domain.ProbeOutcome) error {
	if !out.ProbeStatus && !j.opts.Verbose {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(out)
}

// Close is a no-op; the encoder writes through on every Emit.
func (j *JSONWriter) Close() error { return nil }

// URLListWriter emits just the URL of each successful probe, one per
// line. This is the file representation when no structured format is
// selected.
type URLListWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewURLListWriter creates a URL list sink.
func NewURLListWriter(w io.Writer) *URLListWriter {
	return &URLListWriter{w: w}
}

func (u *URLListWriter) Emit(out *domain.ProbeOutcome) error {
	if !out.ProbeStatus {
		return nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	_, err := io.WriteString(u.w, out.URL+"\n")
	return err
}

func (u *URLListWriter) Close() error { return nil }

// internal/adapters/output/plain.go
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"probex/internal/core/domain"
)

// maxTitleLen truncates long titles in the terminal representation.
const maxTitleLen = 50

// PlainWriter renders human-readable space-bracketed lines, colorized
// by status-code class and field semantics.
type PlainWriter struct {
	mu   sync.Mutex
	w    io.Writer
	opts Options
}

// NewPlainWriter creates a colored terminal sink.
func NewPlainWriter(w io.Writer, opts Options) *PlainWriter {
	return &PlainWriter{w: w, opts: opts}
}

// Emit writes one line per successful probe; failures appear only in
// verbose mode, with the error category in place of the fields.
func (p *PlainWriter) Emit(out *domain.ProbeOutcome) error {
	if !out.ProbeStatus {
		if !p.opts.Verbose || out.Error == nil {
			return nil
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		_, err := fmt.Fprintf(p.w, "%s %s\n",
			p.color(pterm.Cyan, out.URL),
			p.color(pterm.Red, "[ERROR: "+*out.Error+"]"),
		)
		return err
	}

	line := p.buildLine(out)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// Close is a no-op.
func (p *PlainWriter) Close() error { return nil }

func (p *PlainWriter) buildLine(out *domain.ProbeOutcome) string {
	var sb strings.Builder
	sb.WriteString(p.color(pterm.Cyan, out.URL))

	f := p.opts.Fields

	if f.StatusCode && out.StatusCode != nil {
		sb.WriteString(" " + p.color(statusColor(*out.StatusCode), fmt.Sprintf("[%d]", *out.StatusCode)))
	}
	if f.ContentLength && out.ContentLength != nil {
		sb.WriteString(" " + p.color(pterm.Blue, fmt.Sprintf("[%d]", *out.ContentLength)))
	}
	if f.ContentType && out.ContentType != nil && *out.ContentType != "" {
		sb.WriteString(" " + p.color(pterm.Blue, "["+*out.ContentType+"]"))
	}
	if f.Title && out.Title != nil && *out.Title != "" {
		title := *out.Title
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen] + "..."
		}
		sb.WriteString(" " + p.color(pterm.Magenta, "["+title+"]"))
	}
	if f.Server && out.Server != "" {
		sb.WriteString(" " + p.color(pterm.Yellow, "["+out.Server+"]"))
	}
	if f.ResponseTime && out.ResponseTime != nil {
		sb.WriteString(" " + p.color(timeColor(*out.ResponseTime), fmt.Sprintf("[%.2fs]", *out.ResponseTime)))
	}
	if f.Location && out.Location != "" {
		sb.WriteString(" " + p.color(pterm.Yellow, "["+out.Location+"]"))
	}
	if f.LineCount && out.LineCount != nil {
		sb.WriteString(" " + p.color(pterm.Blue, fmt.Sprintf("[%d lines]", *out.LineCount)))
	}
	if f.WordCount && out.WordCount != nil {
		sb.WriteString(" " + p.color(pterm.Blue, fmt.Sprintf("[%d words]", *out.WordCount)))
	}
	if f.BodyHash && out.BodyHash != nil {
		sb.WriteString(" " + p.color(pterm.LightBlue, "["+out.BodyHash.SHA256[:16]+"]"))
	}
	if f.Favicon && out.FaviconHash != nil {
		sb.WriteString(" " + p.color(pterm.LightBlue, fmt.Sprintf("[favicon:%d]", *out.FaviconHash)))
	}

	return sb.String()
}

type colorFunc func(a ...interface{}) string

// color applies fn unless colors are disabled.
func (p *PlainWriter) color(fn colorFunc, s string) string {
	if !p.opts.Color {
		return s
	}
	return fn(s)
}

// statusColor maps a status-code class to its color: 2xx green,
// 3xx yellow, 4xx red, 5xx magenta.
func statusColor(code int) colorFunc {
	switch {
	case code >= 200 && code < 300:
		return pterm.Green
	case code >= 300 && code < 400:
		return pterm.Yellow
	case code >= 400 && code < 500:
		return pterm.Red
	case code >= 500 && code < 600:
		return pterm.Magenta
	default:
		return pterm.White
	}
}

// timeColor grades response times: under 1s green, under 3s yellow,
// slower red.
func timeColor(seconds float64) colorFunc {
	switch {
	case seconds < 1:
		return pterm.Green
	case seconds < 3:
		return pterm.Yellow
	default:
		return pterm.Red
	}
}

// Package output renders completed probe outcomes into the configured
// representation: a JSONL record stream, CSV rows, colored terminal
// lines, or a bare URL list for file output. Writers serialize their
// own emission with a mutex; workers never block each other beyond
// one encode.
package output

import (
	"io"

	"probex/internal/core/domain"
)

// Format selects the output representation.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatPlain   Format = "plain"
	FormatURLList Format = "urls"
)

// Fields selects which outcome fields the plain representation shows.
type Fields struct {
	StatusCode    bool
	ContentLength bool
	ContentType   bool
	Title         bool
	Server        bool
	ResponseTime  bool
	Location      bool
	LineCount     bool
	WordCount     bool
	BodyHash      bool
	Favicon       bool
}

// Options configures a sink.
type Options struct {
	// Verbose includes failed probes in the output.
	Verbose bool

	// Color enables ANSI colors (plain representation only).
	Color bool

	Fields Fields
}

// Sink consumes completed outcomes in completion order.
type Sink interface {
	Emit(out *domain.ProbeOutcome) error
	Close() error
}

// New builds the sink for the given representation.
func New(w io.Writer, format Format, opts Options) Sink {
	switch format {
	case FormatCSV:
		return NewCSVWriter(w, opts)
	case FormatPlain:
		return NewPlainWriter(w, opts)
	case FormatURLList:
		return NewURLListWriter(w)
	default:
		return NewJSONWriter(w, opts)
	}
}

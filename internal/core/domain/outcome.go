// internal/core/domain/outcome.go
package domain

// BodyHash holds the digests computed over the raw response body.
type BodyHash struct {
	MD5    string `json:"md5"`
	SHA256 string `json:"sha256"`
}

// ProbeOutcome is the immutable result record produced for one
// candidate URL, successful or not. Optional fields are pointers so
// "not probed" serializes as an explicit null; Server and Location
// serialize as "" when probed but absent, matching the wire schema.
//
// IP, CNAME, Webserver, ASN and CDN are reserved for a future
// enrichment stage and stay null here; Websocket, HTTP2 and TLS are
// likewise reserved and stay false.
type ProbeOutcome struct {
	URL           string    `json:"url"`
	StatusCode    *int      `json:"status_code"`
	Title         *string   `json:"title"`
	ContentLength *int      `json:"content_length"`
	ContentType   *string   `json:"content_type"`
	Server        string    `json:"server"`
	ResponseTime  *float64  `json:"response_time"`
	IP            *string   `json:"ip"`
	CNAME         *string   `json:"cname"`
	Webserver     *string   `json:"webserver"`
	Websocket     bool      `json:"websocket"`
	HTTP2         bool      `json:"http2"`
	TLS           bool      `json:"tls"`
	BodyHash      *BodyHash `json:"body_hash"`
	HeaderHash    *string   `json:"header_hash"`
	FaviconHash   *int32    `json:"favicon_hash"`
	LineCount     *int      `json:"line_count"`
	WordCount     *int      `json:"word_count"`
	Location      string    `json:"location"`
	ASN           *string   `json:"asn"`
	CDN           *string   `json:"cdn"`
	ProbeStatus   bool      `json:"probe_status"`
	Error         *string   `json:"error"`
}

// NewProbeOutcome creates an outcome for the given URL with every
// response-derived field unset.
func NewProbeOutcome(url string) *ProbeOutcome {
	return &ProbeOutcome{URL: url}
}

// Fail marks the outcome as failed with the given error category.
// Response-derived fields are cleared so the probe_status=false
// invariant holds even when failure strikes mid-analysis.
func (o *ProbeOutcome) Fail(category string) {
	*o = ProbeOutcome{URL: o.URL, Error: &category}
}

// Succeeded reports whether a response was obtained and analyzed.
func (o *ProbeOutcome) Succeeded() bool { return o.ProbeStatus }

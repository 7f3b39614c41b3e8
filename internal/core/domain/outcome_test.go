package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"probex/internal/testutil"
)

func TestProbeOutcome_FailureSerialization(t *testing.T) {
	out := NewProbeOutcome("https://example.com")
	out.Fail("Timeout")

	data, err := json.Marshal(out)
	testutil.AssertNoError(t, err, "marshal should succeed")

	record := string(data)
	testutil.AssertContains(t, record, `"url":"https://example.com"`, "url present")
	testutil.AssertContains(t, record, `"status_code":null`, "status null on failure")
	testutil.AssertContains(t, record, `"response_time":null`, "response time null on failure")
	testutil.AssertContains(t, record, `"probe_status":false`, "probe status false")
	testutil.AssertContains(t, record, `"error":"Timeout"`, "error category set")
}

func TestProbeOutcome_SuccessSerialization(t *testing.T) {
	out := NewProbeOutcome("https://example.com")
	status := 200
	title := "Example Domain"
	length := 1256
	elapsed := 0.134
	out.StatusCode = &status
	out.Title = &title
	out.ContentLength = &length
	out.ResponseTime = &elapsed
	out.Server = "nginx"
	out.ProbeStatus = true

	data, err := json.Marshal(out)
	testutil.AssertNoError(t, err, "marshal should succeed")

	record := string(data)
	testutil.AssertContains(t, record, `"status_code":200`, "status code value")
	testutil.AssertContains(t, record, `"title":"Example Domain"`, "title value")
	testutil.AssertContains(t, record, `"server":"nginx"`, "server value")
	testutil.AssertContains(t, record, `"probe_status":true`, "probe status true")
	testutil.AssertContains(t, record, `"error":null`, "error null on success")

	// Reserved enrichment fields serialize as explicit null/false.
	testutil.AssertContains(t, record, `"ip":null`, "ip reserved")
	testutil.AssertContains(t, record, `"cdn":null`, "cdn reserved")
	testutil.AssertContains(t, record, `"websocket":false`, "websocket reserved")
	testutil.AssertContains(t, record, `"http2":false`, "http2 reserved")

	// Server and location are plain strings even when empty elsewhere;
	// an unpopulated location still serializes, never disappears.
	testutil.AssertContains(t, record, `"location":""`, "location serializes empty string")
}

func TestProbeOutcome_FailClearsFields(t *testing.T) {
	out := NewProbeOutcome("https://example.com")
	status := 500
	out.StatusCode = &status
	out.Server = "apache"
	out.ProbeStatus = true

	out.Fail("ConnectionFailed")

	testutil.AssertEqual(t, out.URL, "https://example.com", "url survives failure")
	testutil.AssertTrue(t, out.StatusCode == nil, "status cleared")
	testutil.AssertEqual(t, out.Server, "", "server cleared")
	testutil.AssertFalse(t, out.ProbeStatus, "probe status false")
	testutil.AssertEqual(t, *out.Error, "ConnectionFailed", "error category set")
}

func TestProbeOutcome_FieldOrder(t *testing.T) {
	data, err := json.Marshal(NewProbeOutcome("https://example.com"))
	testutil.AssertNoError(t, err, "marshal should succeed")

	record := string(data)
	urlIdx := strings.Index(record, `"url"`)
	statusIdx := strings.Index(record, `"status_code"`)
	probeIdx := strings.Index(record, `"probe_status"`)
	errIdx := strings.Index(record, `"error"`)

	testutil.AssertTrue(t, urlIdx < statusIdx, "url before status_code")
	testutil.AssertTrue(t, statusIdx < probeIdx, "status_code before probe_status")
	testutil.AssertTrue(t, probeIdx < errIdx, "probe_status before error")
}

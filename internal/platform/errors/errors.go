// Package errors provides error types and utilities for probex.
// It extends the standard errors package with wrapping helpers and the
// probe failure taxonomy surfaced in outcome records.
package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates a request exceeded its time limit
	ErrTimeout = errors.New("request timed out")

	// ErrConnectionFailed indicates DNS resolution, connect, or reset failures
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTLS indicates certificate validation failed while insecure mode is off
	ErrTLS = errors.New("tls verification failed")

	// ErrRedirectLoop indicates a redirect chain revisited a URL
	ErrRedirectLoop = errors.New("redirect loop detected")

	// ErrMalformedResponse indicates a body that a requested probe could not parse
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidTarget indicates a raw target that cannot be parsed as a host or URL
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidPort indicates a port outside [1,65535]
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidInput indicates invalid configuration input
	ErrInvalidInput = errors.New("invalid input")
)

// Category names surfaced in ProbeOutcome.Error. These are the stable
// strings consumers match on; code matches on the sentinels above.
const (
	CategoryTimeout           = "Timeout"
	CategoryConnectionFailed  = "ConnectionFailed"
	CategoryTLS               = "TLSError"
	CategoryRedirectLoop      = "RedirectLoop"
	CategoryMalformedResponse = "MalformedResponse"
)

// Categorize maps a probe failure to its taxonomy string. Transport
// errors from net/http arrive wrapped in *url.Error and certificate
// failures hide several layers down, so unwrap before classifying.
func Categorize(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case Is(err, ErrRedirectLoop):
		return CategoryRedirectLoop
	case Is(err, ErrMalformedResponse):
		return CategoryMalformedResponse
	case Is(err, ErrTimeout):
		return CategoryTimeout
	case Is(err, ErrTLS):
		return CategoryTLS
	case Is(err, ErrConnectionFailed):
		return CategoryConnectionFailed
	}

	if isTLSError(err) {
		return CategoryTLS
	}
	if isTimeout(err) {
		return CategoryTimeout
	}

	// Anything else that escaped the transport is a connection-tier failure.
	return CategoryConnectionFailed
}

func isTimeout(err error) bool {
	if Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return As(err, &urlErr) && urlErr.Timeout()
}

func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if As(err, &certErr) {
		return true
	}
	var unknownAuth x509.UnknownAuthorityError
	if As(err, &unknownAuth) {
		return true
	}
	var hostnameErr x509.HostnameError
	if As(err, &hostnameErr) {
		return true
	}
	var invalidCert x509.CertificateInvalidError
	return As(err, &invalidCert)
}

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
// This is a convenience wrapper around errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New from the standard library.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
// This is a convenience wrapper around fmt.Errorf from the standard library.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies what went wrong during extraction
type ErrorKind string

const (
	ErrKindNetwork    ErrorKind = "network"    // DNS/connection failure
	ErrKindTimeout    ErrorKind = "timeout"    // exceeded configured bound
	ErrKindRender     ErrorKind = "render"     // browser crash or navigation failure
	ErrKindParse      ErrorKind = "parse"      // malformed HTML/JSON beyond recovery
	ErrKindValidation ErrorKind = "validation" // caller passed a non-URL string
)

// ExtractionWarning is a non-fatal problem recorded on the result instead of
// failing the call
type ExtractionWarning struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationError is the only error kind that fails a pipeline call outright.
// Every other failure is caught internally and recorded as a warning on the
// best-effort partial record.
type ValidationError struct {
	URL    string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ClassifyFetchError maps a transport-level error onto the taxonomy.
// Context deadline and net timeouts count as timeouts, everything else on
// the wire counts as a network error.
func ClassifyFetchError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout
	}
	return ErrKindNetwork
}

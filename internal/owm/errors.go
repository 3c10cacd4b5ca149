package owm

import (
	"errors"
	"fmt"
)

// ErrLookupFailed matches every failure returned by the client, so callers
// that only need "it didn't work" can use errors.Is.
var ErrLookupFailed = errors.New("weather lookup failed")

// TransportError is a network-level fault (DNS, timeout, connection refused).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrLookupFailed, e.Err} }

// StatusError is a non-200 response from the provider.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("fetch %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrLookupFailed }

// ParseError is a malformed body or a missing required field.
type ParseError struct {
	Endpoint string
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s: missing field %q", e.Endpoint, e.Field)
	}
	return fmt.Sprintf("parse %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLookupFailed}
	}
	return []error{ErrLookupFailed, e.Err}
}

// Kind names the failure category for logging and history rows.
func Kind(err error) string {
	var te *TransportError
	var se *StatusError
	var pe *ParseError
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &pe):
		return "parse"
	default:
		return "unknown"
	}
}

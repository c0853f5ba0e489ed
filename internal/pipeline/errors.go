package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal pipeline failure.
type Kind int

const (
	// KindTimeout is a transport-level timeout.
	KindTimeout Kind = iota
	// KindConnection is any other transport failure (DNS, refused, reset).
	KindConnection
	// KindMalformedResponse is a 200 whose body is not valid JSON.
	KindMalformedResponse
	// KindStatus is a non-retryable HTTP status.
	KindStatus
	// KindRetriesExhausted means every allowed attempt failed retryably.
	KindRetriesExhausted
	// KindCircuitOpen means the breaker rejected the call outright.
	KindCircuitOpen
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection error"
	case KindMalformedResponse:
		return "malformed response"
	case KindStatus:
		return "unexpected status"
	case KindRetriesExhausted:
		return "retries exhausted"
	case KindCircuitOpen:
		return "circuit open"
	default:
		return "unknown"
	}
}

// RequestError is the single error type the pipeline surfaces. All kinds are
// terminal for the call; retries have already happened by the time a caller
// sees one.
type RequestError struct {
	Kind     Kind
	Provider string
	Status   int
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%v api returned status code %d", e.Provider, e.Status)
	case KindRetriesExhausted:
		return fmt.Sprintf("all %d attempts failed for %v api request: %v", e.Attempts, e.Provider, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%v api request %v: %v", e.Provider, e.Kind, e.Err)
		}
		return fmt.Sprintf("%v api request %v", e.Provider, e.Kind)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsKind reports whether err is a RequestError of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == kind
}

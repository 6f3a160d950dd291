// Package errors provides the classified error type every failure is reduced
// to before it crosses the response boundary.
package errors

import (
	"fmt"
	"time"
)

// Kind is the failure taxonomy exposed to callers.
type Kind string

const (
	KindBadRequest         Kind = "BAD_REQUEST"
	KindNotFound           Kind = "NOT_FOUND"
	KindInternal           Kind = "INTERNAL_ERROR"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
)

// statusByKind pins the kind/status pairing; Classified values are only built
// through the constructors below so the two can never drift apart.
var statusByKind = map[Kind]int{
	KindBadRequest:         400,
	KindNotFound:           404,
	KindInternal:           500,
	KindServiceUnavailable: 503,
}

// Classified is a failure reduced to a caller-safe triple. Message is what
// the caller sees; Detail keeps the raw upstream text for server-side logs
// and must never be rendered into a response.
type Classified struct {
	Kind       Kind      `json:"kind"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Detail     string    `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *Classified) Error() string {
	return fmt.Sprintf("Classified[%s %d]: %s", e.Kind, e.StatusCode, e.Message)
}

func newClassified(kind Kind, message, detail string) *Classified {
	return &Classified{
		Kind:       kind,
		StatusCode: statusByKind[kind],
		Message:    message,
		Detail:     detail,
		Timestamp:  time.Now().UTC(),
	}
}

// NewBadRequest creates a 400 error for input the caller must correct.
func NewBadRequest(message, detail string) *Classified {
	return newClassified(KindBadRequest, message, detail)
}

// NewNotFound creates a 404 error for a missing user or plant record.
func NewNotFound(message, detail string) *Classified {
	return newClassified(KindNotFound, message, detail)
}

// NewInternal creates a 500 error; callers get a generic message while the
// detail stays in the logs.
func NewInternal(message, detail string) *Classified {
	return newClassified(KindInternal, message, detail)
}

// NewServiceUnavailable creates a 503 error for transient upstream trouble.
func NewServiceUnavailable(message, detail string) *Classified {
	return newClassified(KindServiceUnavailable, message, detail)
}

// HTTPLabel maps a response status to the label carried in the gateway error
// body.
func HTTPLabel(statusCode int) string {
	switch statusCode {
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown Error"
	}
}

// internal/models/request.go
package models

// TransportKind identifies which invocation shape a request arrived on.
type TransportKind string

const (
	// TransportDirect is a raw Lambda invocation with a plain request mapping.
	TransportDirect TransportKind = "direct"
	// TransportGateway is an API Gateway proxy event.
	TransportGateway TransportKind = "gateway"
)

// NormalizedRequest is the internal request both transports converge on.
// Exactly one of UserID / Prompt is populated once validation has run; when
// UserID is set it holds the trimmed identifier, never the raw input.
// The struct lives for a single invocation and is never persisted.
type NormalizedRequest struct {
	Transport     TransportKind
	UserID        string
	Prompt        string
	CorrelationID string
}

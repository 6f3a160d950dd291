// Package transport multiplexes the two invocation shapes the Lambda serves:
// a raw direct payload and an API Gateway proxy event. Detection, parsing and
// rendering live here; everything between happens on the shared normalized
// request/result types.
package transport

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "plant-advisor/internal/common/errors"
)

// instructionTemplate is a contract with the advisory engine's system prompt:
// this exact wording is what triggers the user-data lookup workflow. Do not
// reword it.
const instructionTemplate = "Give me plant advice for user_id %s"

// TimestampLayout is the fixed instant format every response carries:
// UTC, microsecond precision, literal trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var gatewayMarkers = [4]string{"httpMethod", "path", "headers", "body"}

// InstructionForUser synthesizes the engine instruction for a validated
// identifier.
func InstructionForUser(userID string) string {
	return fmt.Sprintf(instructionTemplate, userID)
}

// Timestamp renders the current instant in the response format.
func Timestamp() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// IsGatewayEvent reports whether event is an API Gateway proxy event: it must
// carry all four marker fields at once. Anything else is a direct invocation.
func IsGatewayEvent(event map[string]interface{}) bool {
	for _, marker := range gatewayMarkers {
		if _, ok := event[marker]; !ok {
			return false
		}
	}
	return true
}

// GatewayRequest is a parsed API Gateway proxy event.
type GatewayRequest struct {
	Method string
	Path   string
	Data   map[string]interface{}
}

// ParseGateway extracts the request data from a gateway event. A string body
// is JSON-decoded, a mapping body is used as-is, an absent or empty body
// becomes an empty mapping. A malformed body is a terminal 400 surfaced
// before any other processing.
func ParseGateway(event map[string]interface{}) (*GatewayRequest, error) {
	method, _ := event["httpMethod"].(string)
	path, _ := event["path"].(string)

	var data map[string]interface{}
	switch body := event["body"].(type) {
	case string:
		if body != "" {
			if err := json.Unmarshal([]byte(body), &data); err != nil {
				return nil, apperrors.NewBadRequest(
					fmt.Sprintf("Invalid request format: invalid JSON in request body: %v", err),
					err.Error(),
				)
			}
		}
	case map[string]interface{}:
		data = body
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	return &GatewayRequest{Method: method, Path: path, Data: data}, nil
}

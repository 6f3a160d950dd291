// internal/advisor/transport/render.go
package transport

import (
	"encoding/json"

	apperrors "plant-advisor/internal/common/errors"
	"plant-advisor/internal/models"
)

// corsHeaders is the fixed header set every gateway response carries,
// including errors and the OPTIONS preflight.
var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "POST,OPTIONS",
}

// GatewayResponse is the API Gateway proxy integration envelope.
type GatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

func newGatewayResponse(statusCode int, body map[string]interface{}) *GatewayResponse {
	headers := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		headers[k] = v
	}

	encoded := ""
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			// Response bodies are built from JSON-safe values; treat a marshal
			// failure as the internal fault it is rather than dropping the body.
			raw, _ = json.Marshal(map[string]interface{}{
				"statusCode": 500,
				"error":      apperrors.HTTPLabel(500),
				"message":    "An internal error occurred while processing your request.",
			})
			statusCode = 500
		}
		encoded = string(raw)
	}

	return &GatewayResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       encoded,
	}
}

// RenderPreflight answers an OPTIONS request: 200, CORS headers, no body.
func RenderPreflight() *GatewayResponse {
	return newGatewayResponse(200, nil)
}

// RenderGatewaySuccess renders a successful advisory over the gateway shape.
func RenderGatewaySuccess(result *models.AdvisoryResult, conditions *models.WeatherConditions, userID, requestID string) *GatewayResponse {
	details := result.Details
	if details == nil {
		details = map[string]interface{}{}
	}

	body := map[string]interface{}{
		"statusCode": 200,
		"advice":     result.Summary,
		"details":    details,
		"request_id": requestID,
		"timestamp":  Timestamp(),
	}
	if userID != "" {
		body["user_id"] = userID
	}
	if conditions != nil {
		body["weather_conditions"] = conditions
	}

	return newGatewayResponse(200, body)
}

// RenderGatewayError renders a classified failure over the gateway shape.
// userID is echoed only when the caller sent something string-typed.
func RenderGatewayError(cerr *apperrors.Classified, userID *string, requestID string) *GatewayResponse {
	body := map[string]interface{}{
		"statusCode": cerr.StatusCode,
		"error":      apperrors.HTTPLabel(cerr.StatusCode),
		"message":    cerr.Message,
		"request_id": requestID,
		"timestamp":  Timestamp(),
	}
	if userID != nil {
		body["user_id"] = *userID
	}

	return newGatewayResponse(cerr.StatusCode, body)
}

// RenderDirectSuccess renders a successful advisory for a direct invocation;
// no HTTP envelope, just the response mapping.
func RenderDirectSuccess(result *models.AdvisoryResult, conditions *models.WeatherConditions, userID, requestID string) map[string]interface{} {
	details := result.Details
	if details == nil {
		details = map[string]interface{}{}
	}

	out := map[string]interface{}{
		"advice":     result.Summary,
		"details":    details,
		"timestamp":  Timestamp(),
		"request_id": requestID,
	}
	if userID != "" {
		out["user_id"] = userID
	}
	if conditions != nil {
		out["weather_conditions"] = conditions
	}
	return out
}

// RenderDirectError renders a failure for a direct invocation. The message
// lands in the summary field so direct callers always get the same shape.
func RenderDirectError(message string, userID *string, requestID string) map[string]interface{} {
	out := map[string]interface{}{
		"details":    map[string]interface{}{},
		"summary":    message,
		"timestamp":  Timestamp(),
		"request_id": requestID,
	}
	if userID != nil {
		out["user_id"] = *userID
	}
	return out
}

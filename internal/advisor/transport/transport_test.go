package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "plant-advisor/internal/common/errors"
	"plant-advisor/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func gatewayEvent(method string, body interface{}) map[string]interface{} {
	return map[string]interface{}{
		"httpMethod": method,
		"path":       "/advice",
		"headers":    map[string]interface{}{"Content-Type": "application/json"},
		"body":       body,
	}
}

func decodeBody(t *testing.T, resp *GatewayResponse) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return out
}

// ==========================
// Detection
// ==========================

func TestIsGatewayEvent(t *testing.T) {
	assert.True(t, IsGatewayEvent(gatewayEvent("POST", "{}")))

	// All four markers must be present at once.
	for _, marker := range []string{"httpMethod", "path", "headers", "body"} {
		event := gatewayEvent("POST", "{}")
		delete(event, marker)
		assert.False(t, IsGatewayEvent(event), "missing %s should not detect as gateway", marker)
	}

	assert.False(t, IsGatewayEvent(map[string]interface{}{"user_id": "abc"}))
	assert.False(t, IsGatewayEvent(map[string]interface{}{}))
}

// ==========================
// Gateway parsing
// ==========================

func TestParseGateway(t *testing.T) {
	t.Run("string body is decoded", func(t *testing.T) {
		req, err := ParseGateway(gatewayEvent("POST", `{"user_id":"abc123"}`))
		require.NoError(t, err)
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "/advice", req.Path)
		assert.Equal(t, "abc123", req.Data["user_id"])
	})

	t.Run("mapping body is used as-is", func(t *testing.T) {
		req, err := ParseGateway(gatewayEvent("POST", map[string]interface{}{"user_id": "abc123"}))
		require.NoError(t, err)
		assert.Equal(t, "abc123", req.Data["user_id"])
	})

	t.Run("absent body becomes empty mapping", func(t *testing.T) {
		req, err := ParseGateway(gatewayEvent("POST", nil))
		require.NoError(t, err)
		assert.NotNil(t, req.Data)
		assert.Empty(t, req.Data)
	})

	t.Run("empty string body becomes empty mapping", func(t *testing.T) {
		req, err := ParseGateway(gatewayEvent("POST", ""))
		require.NoError(t, err)
		assert.Empty(t, req.Data)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		_, err := ParseGateway(gatewayEvent("POST", "{not json"))
		require.Error(t, err)
		cerr, ok := err.(*apperrors.Classified)
		require.True(t, ok)
		assert.Equal(t, 400, cerr.StatusCode)
		assert.Equal(t, apperrors.KindBadRequest, cerr.Kind)
		assert.Contains(t, cerr.Message, "Invalid request format")
	})
}

// ==========================
// Instruction synthesis
// ==========================

func TestInstructionForUser(t *testing.T) {
	assert.Equal(t, "Give me plant advice for user_id abc123", InstructionForUser("abc123"))
}

// ==========================
// Rendering
// ==========================

func TestRenderPreflight(t *testing.T) {
	resp := RenderPreflight()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assertCORSHeaders(t, resp)
}

func TestRenderGatewaySuccess(t *testing.T) {
	temp := 22
	resp := RenderGatewaySuccess(
		&models.AdvisoryResult{
			Summary: "shelter the roses",
			Details: map[string]interface{}{"Rose": "cover tonight"},
		},
		&models.WeatherConditions{Temperature: &temp, Condition: "clear"},
		"abc123",
		"req-1",
	)

	assert.Equal(t, 200, resp.StatusCode)
	assertCORSHeaders(t, resp)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Equal(t, "shelter the roses", body["advice"])
	assert.Equal(t, "abc123", body["user_id"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Contains(t, body, "timestamp")
	assert.Contains(t, body, "details")

	conditions, ok := body["weather_conditions"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(22), conditions["temperature"])
	assert.Equal(t, "clear", conditions["condition"])
}

func TestRenderGatewaySuccess_OptionalFieldsOmitted(t *testing.T) {
	resp := RenderGatewaySuccess(&models.AdvisoryResult{Summary: "ok"}, nil, "", "req-1")
	body := decodeBody(t, resp)
	assert.NotContains(t, body, "user_id")
	assert.NotContains(t, body, "weather_conditions")
	assert.Equal(t, map[string]interface{}{}, body["details"])
}

func TestRenderGatewayError(t *testing.T) {
	tests := []struct {
		cerr      *apperrors.Classified
		wantLabel string
	}{
		{apperrors.NewBadRequest("bad input", ""), "Bad Request"},
		{apperrors.NewNotFound("no such user", ""), "Not Found"},
		{apperrors.NewInternal("oops", ""), "Internal Server Error"},
		{apperrors.NewServiceUnavailable("later", ""), "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			userID := "abc123"
			resp := RenderGatewayError(tt.cerr, &userID, "req-9")
			assert.Equal(t, tt.cerr.StatusCode, resp.StatusCode)
			assertCORSHeaders(t, resp)

			body := decodeBody(t, resp)
			assert.Equal(t, float64(tt.cerr.StatusCode), body["statusCode"])
			assert.Equal(t, tt.wantLabel, body["error"])
			assert.Equal(t, tt.cerr.Message, body["message"])
			assert.Equal(t, "req-9", body["request_id"])
			assert.Equal(t, "abc123", body["user_id"])
			assert.Contains(t, body, "timestamp")
		})
	}
}

func TestRenderGatewayError_NoUserEcho(t *testing.T) {
	resp := RenderGatewayError(apperrors.NewBadRequest("bad", ""), nil, "req-9")
	body := decodeBody(t, resp)
	assert.NotContains(t, body, "user_id")
}

func TestRenderDirect(t *testing.T) {
	out := RenderDirectSuccess(&models.AdvisoryResult{Summary: "all fine", Details: map[string]interface{}{}}, nil, "abc123", "req-2")
	assert.Equal(t, "all fine", out["advice"])
	assert.Equal(t, "abc123", out["user_id"])
	assert.Equal(t, "req-2", out["request_id"])
	assert.Contains(t, out, "timestamp")
	assert.NotContains(t, out, "weather_conditions")

	errOut := RenderDirectError("Error: something", nil, "req-3")
	assert.Equal(t, "Error: something", errOut["summary"])
	assert.Equal(t, map[string]interface{}{}, errOut["details"])
	assert.Equal(t, "req-3", errOut["request_id"])
	assert.NotContains(t, errOut, "user_id")
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp()
	parsed, err := time.Parse(TimestampLayout, ts)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
	assert.True(t, ts[len(ts)-1] == 'Z')
}

func assertCORSHeaders(t *testing.T, resp *GatewayResponse) {
	t.Helper()
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

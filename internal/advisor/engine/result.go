// internal/advisor/engine/result.go
package engine

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"plant-advisor/internal/models"
)

// payloadSchema is the contract the system prompt demands from the model's
// final answer.
var payloadSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"details": {"type": "object"}
	},
	"required": ["summary", "details"]
}`)

// parseAdvisoryPayload turns the model's final text into an AdvisoryResult.
// A markdown code fence around the JSON is tolerated. The payload shape is
// expected but not guaranteed; when the text is not the contracted JSON
// object, the whole text becomes the summary rather than failing the
// request, since the model did produce an advisory.
func parseAdvisoryPayload(text string) (*models.AdvisoryResult, error) {
	trimmed := stripCodeFence(strings.TrimSpace(text))

	validation, err := gojsonschema.Validate(payloadSchema, gojsonschema.NewStringLoader(trimmed))
	if err != nil || !validation.Valid() {
		return &models.AdvisoryResult{
			Summary: strings.TrimSpace(text),
			Details: map[string]interface{}{},
		}, nil
	}

	var result models.AdvisoryResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return &models.AdvisoryResult{
			Summary: strings.TrimSpace(text),
			Details: map[string]interface{}{},
		}, nil
	}
	if result.Details == nil {
		result.Details = map[string]interface{}{}
	}
	return &result, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the language tag line ("json", possibly empty).
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

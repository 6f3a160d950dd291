// internal/capability/httprequest.go
package capability

import (
	"context"
	"fmt"
	"strings"

	commonhttp "plant-advisor/internal/common/http"
	"plant-advisor/internal/common/logger"
)

// HTTPRequestName is the tool name the engine's system prompt refers to.
const HTTPRequestName = "http_request"

// HTTPRequest performs a GET and returns the parsed JSON body. In practice
// the engine uses it for the Open-Meteo forecast; the failure text carries
// the capability name so the classifier maps it to the weather-service 503.
type HTTPRequest struct {
	client *commonhttp.Client
	logger logger.Logger
}

func NewHTTPRequest(client *commonhttp.Client, log logger.Logger) *HTTPRequest {
	return &HTTPRequest{
		client: client,
		logger: log.WithFields(map[string]interface{}{"capability": HTTPRequestName}),
	}
}

func (h *HTTPRequest) Name() string { return HTTPRequestName }

func (h *HTTPRequest) Description() string {
	return "Performs an HTTP GET request and returns the parsed JSON response body. Use this to fetch the weather forecast."
}

func (h *HTTPRequest) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"method": map[string]interface{}{
				"type": "string",
				"enum": []string{"GET"},
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The full URL to request, including query parameters.",
			},
		},
		"required": []string{"url"},
	}
}

func (h *HTTPRequest) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	url, _ := input["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("http_request called without a url")
	}
	if !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("http_request refused non-https url %q", url)
	}

	h.logger.Debug("fetching", map[string]interface{}{"url": url})

	body, err := h.client.GetJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("http_request to weather service failed: %w", err)
	}
	return body, nil
}

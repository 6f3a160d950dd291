// internal/models/advisory.go
package models

// AdvisoryResult is the advisory engine's successful output: a prose summary
// plus a structured per-plant details mapping. It is produced by the engine
// and consumed exactly once by the dispatcher.
type AdvisoryResult struct {
	Summary string                 `json:"summary"`
	Details map[string]interface{} `json:"details"`
}

// WeatherConditions holds fields heuristically mined from the engine's prose
// for display. Derived and never authoritative; a nil value is a normal
// outcome, not an error.
type WeatherConditions struct {
	Temperature *int   `json:"temperature,omitempty"`
	Humidity    *int   `json:"humidity,omitempty"`
	Condition   string `json:"condition,omitempty"`
}

// UserProfile is the record the user-data lookup capability returns.
// Latitude/Longitude are pointers so an incomplete record can be told apart
// from coordinates at zero.
type UserProfile struct {
	UserID    string   `json:"user_id" dynamodbav:"user_id"`
	Latitude  *float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude *float64 `json:"longitude" dynamodbav:"longitude"`
	Plants    []string `json:"plants" dynamodbav:"plants"`
}

// PlantDefinition is the full attribute map for a single plant. The boundary
// passes it through to the engine untouched, so it stays schemaless.
type PlantDefinition map[string]interface{}

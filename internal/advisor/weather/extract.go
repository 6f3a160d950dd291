// Package weather mines temperature, humidity and a coarse condition keyword
// out of the advisory engine's free-text output.
//
// This is a display convenience over language-model prose, not telemetry:
// the scans take whichever value appears first in the concatenated
// summary+details buffer and make no correctness guarantee. Consumers must
// tolerate a nil result.
package weather

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"plant-advisor/internal/models"
)

var (
	// First digit run, optionally followed by a degree sign and a C/F unit.
	// Both suffixes are optional, so in practice this latches onto the first
	// number in the buffer; kept that way deliberately.
	temperaturePattern = regexp.MustCompile(`(\d+)°?[CF]?`)

	// Digits next to a % that sits near the word "humidity", either order.
	humidityPattern = regexp.MustCompile(`(?i)(\d+)%.*humidity|humidity.*?(\d+)%`)

	// Multi-word phrases must come before their shorter substrings so
	// "partly cloudy" is not shadowed by "cloudy".
	conditionKeywords = []string{"partly cloudy", "overcast", "sunny", "cloudy", "rainy", "windy", "clear"}
)

// Extract scans result for weather fields. Returns nil when none of the
// three scans find anything; otherwise whatever subset was found.
func Extract(result *models.AdvisoryResult) *models.WeatherConditions {
	if result == nil {
		return nil
	}

	buf := result.Summary + " " + renderDetails(result.Details)

	conditions := &models.WeatherConditions{}
	found := false

	if m := temperaturePattern.FindStringSubmatch(buf); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			conditions.Temperature = &v
			found = true
		}
	}

	if m := humidityPattern.FindStringSubmatch(buf); m != nil {
		g := m[1]
		if g == "" {
			g = m[2]
		}
		if v, err := strconv.Atoi(g); err == nil {
			conditions.Humidity = &v
			found = true
		}
	}

	lower := strings.ToLower(buf)
	for _, keyword := range conditionKeywords {
		if strings.Contains(lower, keyword) {
			conditions.Condition = keyword
			found = true
			break
		}
	}

	if !found {
		return nil
	}
	return conditions
}

// renderDetails flattens the details mapping into searchable text. %v prints
// map keys in sorted order, which keeps the scan deterministic per result.
func renderDetails(details map[string]interface{}) string {
	if len(details) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", details)
}

// Package classify maps arbitrary upstream failures to the response taxonomy.
//
// Failures from the data layer and the advisory engine cross a service
// boundary as text, so classification works by lower-cased substring matching
// over the failure's description. That is best-effort by nature: the patterns
// track the wording DynamoDB, Bedrock and the in-tree capabilities are known
// to produce. First match wins.
package classify

import (
	"fmt"
	"strings"

	apperrors "plant-advisor/internal/common/errors"
)

// Failure reduces err to a Classified error. userID is woven into the
// messages that may reference the identifier; upstream text itself is never
// echoed to the caller, only kept as internal detail.
func Failure(err error, userID string) *apperrors.Classified {
	// Already-classified failures (parse errors, validation) pass through.
	if c, ok := err.(*apperrors.Classified); ok {
		return c
	}

	desc := strings.ToLower(err.Error())
	detail := err.Error()

	switch {
	case containsAny(desc, "no user data found", "no user item found", "resourcenotfoundexception"):
		return apperrors.NewNotFound(
			fmt.Sprintf("User not found: No user profile found for user_id: %s", userID), detail)

	case containsAny(desc, "accessdeniedexception", "unauthorizedoperation"):
		return apperrors.NewInternal("Database access error. Please contact support.", detail)

	case containsAny(desc, "throttlingexception", "provisionedthroughputexceeded"):
		return apperrors.NewServiceUnavailable(
			"Service temporarily unavailable due to high demand. Please try again later.", detail)

	case strings.Contains(desc, "validationexception"):
		return apperrors.NewBadRequest(fmt.Sprintf("Invalid user_id format: %s", userID), detail)

	case containsAny(desc, "bedrock", "nova"):
		switch {
		case containsAny(desc, "throttling", "rate"):
			return apperrors.NewServiceUnavailable(
				"AI service temporarily unavailable due to high demand. Please try again later.", detail)
		case containsAny(desc, "access", "unauthorized"):
			return apperrors.NewInternal("AI service access error. Please contact support.", detail)
		default:
			return apperrors.NewServiceUnavailable(
				"AI service temporarily unavailable. Please try again later.", detail)
		}

	case containsAny(desc, "weather", "open-meteo", "http_request"):
		return apperrors.NewServiceUnavailable(
			"Weather service temporarily unavailable. Please try again later.", detail)

	default:
		return apperrors.NewInternal(
			"An internal error occurred while processing your request.", detail)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

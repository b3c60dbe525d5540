// Package fault classifies raw failure signals into a fixed error taxonomy.
// Every failure surfaced to a scene or session is normalized into an *Error
// carrying a category and a canonical user-facing message; callers branch on
// the category, never on raw provider output.
package fault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category identifies one class of failure in the taxonomy.
type Category string

const (
	// CategoryValidation indicates a required input was missing or empty
	// before any network call was made.
	CategoryValidation Category = "VALIDATION_ERROR"
	// CategoryNetwork indicates every dispatch candidate was unreachable.
	CategoryNetwork Category = "NETWORK_ERROR"
	// CategoryAuth indicates the provider rejected the credential.
	CategoryAuth Category = "AUTH_ERROR"
	// CategoryQuota indicates rate or quota exhaustion at the provider.
	CategoryQuota Category = "QUOTA_EXCEEDED"
	// CategoryRemoteJob indicates a remote job reached a failed or
	// cancelled terminal status.
	CategoryRemoteJob Category = "REMOTE_JOB_FAILURE"
	// CategoryTimeout indicates the poller exhausted its attempts while
	// the job was still pending.
	CategoryTimeout Category = "TIMEOUT"
	// CategoryUnexpectedPayload indicates a success response was missing
	// the expected result field.
	CategoryUnexpectedPayload Category = "UNEXPECTED_PAYLOAD"
	// CategoryProvider covers any other non-2xx application response.
	CategoryProvider Category = "PROVIDER_ERROR"
)

// userMessages holds the single canonical user-facing message per category.
var userMessages = map[Category]string{
	CategoryValidation:        "A required input is missing. Check the uploaded images and try again.",
	CategoryNetwork:           "Could not reach the generation service. Check your connection or proxy configuration.",
	CategoryAuth:              "The API credential was rejected. Select a valid API key and try again.",
	CategoryQuota:             "The API quota or rate limit has been exhausted. Try again later or switch credentials.",
	CategoryRemoteJob:         "The generation job failed on the provider side.",
	CategoryTimeout:           "The generation job did not finish in time.",
	CategoryUnexpectedPayload: "The generation service returned an unexpected response.",
	CategoryProvider:          "The generation service rejected the request.",
}

// Error is a classified failure: a taxonomy category plus diagnostics.
// It is always derived from a raw signal, never constructed ad hoc.
type Error struct {
	Category Category
	// Detail describes the raw signal for logs and diagnostics.
	Detail string
	// StatusCode is the HTTP status for provider-derived errors, 0 otherwise.
	StatusCode int
	// Body is the raw response body for provider-derived errors.
	Body string
}

// Error returns the diagnostic representation.
func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Category)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

// UserMessage returns the canonical user-facing message for the category.
func (e *Error) UserMessage() string {
	return userMessages[e.Category]
}

// SessionLevel reports whether the failure must pause the whole session
// rather than a single scene. Credential and quota problems require the
// caller to reselect credentials before any further attempt.
func (e *Error) SessionLevel() bool {
	return e.Category == CategoryAuth || e.Category == CategoryQuota
}

// Validation builds a pre-dispatch input failure.
func Validation(detail string) *Error {
	return &Error{Category: CategoryValidation, Detail: detail}
}

// Network builds the dispatcher's terminal failure after every candidate
// base address failed with a connectivity error.
func Network(tried []string, last error) *Error {
	detail := fmt.Sprintf("all candidates unreachable: %s", strings.Join(tried, ", "))
	if last != nil {
		detail = fmt.Sprintf("%s: last error: %v", detail, last)
	}
	return &Error{Category: CategoryNetwork, Detail: detail}
}

// RemoteJob builds a failure for a job that reached a failed, error or
// cancelled terminal status.
func RemoteJob(detail string) *Error {
	if detail == "" {
		detail = "remote job reported failure"
	}
	return &Error{Category: CategoryRemoteJob, Detail: detail}
}

// Timeout builds a failure for a poll cycle that exhausted its attempts.
func Timeout(attempts int) *Error {
	return &Error{Category: CategoryTimeout, Detail: fmt.Sprintf("job still pending after %d status checks", attempts)}
}

// UnexpectedPayload builds a failure for a success response missing the
// expected result field.
func UnexpectedPayload(detail string) *Error {
	return &Error{Category: CategoryUnexpectedPayload, Detail: detail}
}

// Body markers that identify credential and quota rejections regardless of
// the status code the provider happened to use.
var (
	authMarkers  = []string{"invalid api key", "api key is required", "invalid credential", "unauthorized", "missing api key"}
	quotaMarkers = []string{"quota", "rate limit", "too many requests", "insufficient credits"}
)

// FromResponse classifies a non-2xx application response. The endpoint was
// reachable, so the error is substantive: credential, quota, or a generic
// provider rejection carrying the raw status and body.
func FromResponse(statusCode int, body []byte) *Error {
	lower := strings.ToLower(string(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Category: CategoryAuth, Detail: fmt.Sprintf("status %d: %s", statusCode, body), StatusCode: statusCode, Body: string(body)}
	case http.StatusTooManyRequests:
		return &Error{Category: CategoryQuota, Detail: fmt.Sprintf("status %d: %s", statusCode, body), StatusCode: statusCode, Body: string(body)}
	}

	for _, m := range authMarkers {
		if strings.Contains(lower, m) {
			return &Error{Category: CategoryAuth, Detail: fmt.Sprintf("status %d: %s", statusCode, body), StatusCode: statusCode, Body: string(body)}
		}
	}
	for _, m := range quotaMarkers {
		if strings.Contains(lower, m) {
			return &Error{Category: CategoryQuota, Detail: fmt.Sprintf("status %d: %s", statusCode, body), StatusCode: statusCode, Body: string(body)}
		}
	}

	return &Error{Category: CategoryProvider, Detail: fmt.Sprintf("status %d: %s", statusCode, body), StatusCode: statusCode, Body: string(body)}
}

// CategoryOf extracts the category from an error chain. Unclassified errors
// map to CategoryProvider so no failure escapes the taxonomy.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryProvider
}

// As unwraps err into a classified *Error, or nil if none is present.
func As(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// MessageFor returns the user-facing message for an error chain. Errors
// outside the taxonomy fall back to the provider-category message.
func MessageFor(err error) string {
	if fe := As(err); fe != nil {
		return fe.UserMessage()
	}
	return userMessages[CategoryProvider]
}

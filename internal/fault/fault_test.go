package fault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestFromResponse_Classification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       Category
	}{
		{"401 is auth", http.StatusUnauthorized, `{"message":"bad key"}`, CategoryAuth},
		{"403 is auth", http.StatusForbidden, "", CategoryAuth},
		{"429 is quota", http.StatusTooManyRequests, "", CategoryQuota},
		{"auth marker in body", http.StatusBadRequest, `{"error":"Invalid API key provided"}`, CategoryAuth},
		{"missing key marker", http.StatusBadRequest, "API key is required", CategoryAuth},
		{"quota marker in body", http.StatusPaymentRequired, `{"error":"monthly quota exceeded"}`, CategoryQuota},
		{"rate limit marker", http.StatusServiceUnavailable, "rate limit reached", CategoryQuota},
		{"plain 500 is provider", http.StatusInternalServerError, "boom", CategoryProvider},
		{"plain 400 is provider", http.StatusBadRequest, `{"error":"bad aspect ratio"}`, CategoryProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromResponse(tt.statusCode, []byte(tt.body))
			if got.Category != tt.want {
				t.Errorf("FromResponse(%d, %q).Category = %s, want %s", tt.statusCode, tt.body, got.Category, tt.want)
			}
			if got.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.statusCode)
			}
		})
	}
}

func TestError_UserMessage_Canonical(t *testing.T) {
	// Two errors of the same category must carry the same user message.
	a := FromResponse(http.StatusUnauthorized, []byte("one"))
	b := FromResponse(http.StatusForbidden, []byte("two"))
	if a.UserMessage() != b.UserMessage() {
		t.Errorf("user messages differ within a category: %q vs %q", a.UserMessage(), b.UserMessage())
	}
	if a.UserMessage() == "" {
		t.Error("expected non-empty user message")
	}
}

func TestError_SessionLevel(t *testing.T) {
	tests := []struct {
		err  *Error
		want bool
	}{
		{FromResponse(http.StatusUnauthorized, nil), true},
		{FromResponse(http.StatusTooManyRequests, nil), true},
		{FromResponse(http.StatusInternalServerError, nil), false},
		{Validation("missing product image"), false},
		{Network([]string{"http://a", "http://b"}, nil), false},
		{RemoteJob("job failed"), false},
		{Timeout(60), false},
		{UnexpectedPayload("no image field"), false},
	}

	for _, tt := range tests {
		if got := tt.err.SessionLevel(); got != tt.want {
			t.Errorf("%s.SessionLevel() = %v, want %v", tt.err.Category, got, tt.want)
		}
	}
}

func TestCategoryOf_WrappedError(t *testing.T) {
	inner := Timeout(60)
	wrapped := fmt.Errorf("generate video: %w", inner)

	if got := CategoryOf(wrapped); got != CategoryTimeout {
		t.Errorf("CategoryOf(wrapped) = %s, want %s", got, CategoryTimeout)
	}
	if got := CategoryOf(errors.New("plain")); got != CategoryProvider {
		t.Errorf("CategoryOf(plain) = %s, want %s", got, CategoryProvider)
	}
}

func TestNetwork_ListsTriedCandidates(t *testing.T) {
	err := Network([]string{"http://relay.local", "https://api.freepik.com/v1"}, errors.New("connection refused"))
	if err.Category != CategoryNetwork {
		t.Fatalf("Category = %s, want %s", err.Category, CategoryNetwork)
	}
	for _, base := range []string{"http://relay.local", "https://api.freepik.com/v1", "connection refused"} {
		if !strings.Contains(err.Detail, base) {
			t.Errorf("Detail %q missing %q", err.Detail, base)
		}
	}
}

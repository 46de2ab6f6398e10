package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"not found", NewNotFoundError("Nope"), "Page not found"},
		{"token", &TokenError{}, "Failed to get CSRF token"},
		{"response default", &ResponseError{}, "Invalid response from server"},
		{"response edit", NewResponseError(MsgEditFailed, "result=Failure"), "Failed to edit page"},
		{"api", &APIError{Code: "badtoken", Info: "Invalid CSRF token."}, "API error [badtoken]: Invalid CSRF token."},
		{"http with body", &HTTPError{StatusCode: 503, Body: "down"}, "wiki returned HTTP 503: down"},
		{"http without body", &HTTPError{StatusCode: 500}, "wiki returned HTTP 500"},
		{"validation with field", NewValidationError("title", "is required"), "validation failed for title: is required"},
		{"validation message only", &ValidationError{Message: "invalid input"}, "validation failed: invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Main Page")

	if err.Title != "Main Page" {
		t.Errorf("Title = %q, want %q", err.Title, "Main Page")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("query", "is required")

	if err.Field != "query" {
		t.Errorf("Field = %q, want %q", err.Field, "query")
	}
	if err.Message != "is required" {
		t.Errorf("Message = %q, want %q", err.Message, "is required")
	}
}

func TestIsNotFound(t *testing.T) {
	notFoundErr := NewNotFoundError("X")
	validationErr := &ValidationError{Message: "test"}
	plainErr := errors.New("plain error")

	if !IsNotFound(notFoundErr) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
	if !IsNotFound(fmt.Errorf("get page: %w", notFoundErr)) {
		t.Error("IsNotFound should return true for wrapped NotFoundError")
	}
	if IsNotFound(validationErr) {
		t.Error("IsNotFound should return false for ValidationError")
	}
	if IsNotFound(plainErr) {
		t.Error("IsNotFound should return false for plain error")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound should return false for nil")
	}
}

func TestIsTokenFailure(t *testing.T) {
	if !IsTokenFailure(fmt.Errorf("edit: %w", &TokenError{})) {
		t.Error("IsTokenFailure should return true for wrapped TokenError")
	}
	if IsTokenFailure(NewNotFoundError("X")) {
		t.Error("IsTokenFailure should return false for NotFoundError")
	}
}

func TestIsValidation(t *testing.T) {
	notFoundErr := NewNotFoundError("X")
	validationErr := &ValidationError{Message: "test"}
	plainErr := errors.New("plain error")

	if IsValidation(notFoundErr) {
		t.Error("IsValidation should return false for NotFoundError")
	}
	if !IsValidation(validationErr) {
		t.Error("IsValidation should return true for ValidationError")
	}
	if IsValidation(plainErr) {
		t.Error("IsValidation should return false for plain error")
	}
	if IsValidation(nil) {
		t.Error("IsValidation should return false for nil")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped not found", fmt.Errorf("get content: %w", NewNotFoundError("X")), "Page not found"},
		{"wrapped token", fmt.Errorf("delete: %w", &TokenError{}), "Failed to get CSRF token"},
		{"wrapped api", fmt.Errorf("search: %w", &APIError{Code: "srsearch-text-disabled", Info: "disabled"}), "API error [srsearch-text-disabled]: disabled"},
		{"wrapped response", fmt.Errorf("delete: %w", NewResponseError(MsgDeleteFailed, "no title")), "Failed to delete page"},
		{"plain", errors.New("request failed: dial tcp: refused"), "request failed: dial tcp: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", NewNotFoundError("X"), "not_found"},
		{"token", &TokenError{}, "token"},
		{"validation", NewValidationError("title", "is required"), "validation"},
		{"api", &APIError{Code: "protectedpage"}, "protectedpage"},
		{"response", &ResponseError{}, "bad_response"},
		{"http", &HTTPError{StatusCode: 502}, "http_502"},
		{"other", errors.New("boom"), "transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

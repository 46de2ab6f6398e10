// Package errors provides shared error types for the MediaWiki client.
//
// Each type carries the canonical failure message that is reported to MCP
// callers, so wrapping with %w never changes what the caller sees.
package errors

import (
	"errors"
	"fmt"
)

// Canonical failure messages.
const (
	MsgPageNotFound    = "Page not found"
	MsgTokenFailure    = "Failed to get CSRF token"
	MsgInvalidResponse = "Invalid response from server"
	MsgEditFailed      = "Failed to edit page"
	MsgDeleteFailed    = "Failed to delete page"
)

// NotFoundError indicates the wiki marked the requested page as missing.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return MsgPageNotFound
}

// NewNotFoundError creates a NotFoundError for a page title.
func NewNotFoundError(title string) *NotFoundError {
	return &NotFoundError{Title: title}
}

// TokenError indicates the token response did not contain a CSRF token.
type TokenError struct{}

func (e *TokenError) Error() string {
	return MsgTokenFailure
}

// ResponseError indicates a response that parsed but lacked the field the
// operation depends on. Detail is for logs only.
type ResponseError struct {
	Message string
	Detail  string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return MsgInvalidResponse
	}
	return e.Message
}

// NewResponseError creates a ResponseError with the given canonical message.
func NewResponseError(message, detail string) *ResponseError {
	return &ResponseError{Message: message, Detail: detail}
}

// APIError is an error object returned by api.php in place of a result.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error [%s]: %s", e.Code, e.Info)
}

// HTTPError indicates a non-2xx status from the wiki.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("wiki returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("wiki returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsTokenFailure returns true if err is or wraps a TokenError.
func IsTokenFailure(err error) bool {
	var target *TokenError
	return errors.As(err, &target)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Message returns the text reported to callers for err. Known types are
// unwrapped so that context added on the way up is not shown.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		notFound   *NotFoundError
		token      *TokenError
		response   *ResponseError
		api        *APIError
		httpErr    *HTTPError
		validation *ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &token):
		return token.Error()
	case errors.As(err, &response):
		return response.Error()
	case errors.As(err, &api):
		return api.Error()
	case errors.As(err, &httpErr):
		return httpErr.Error()
	case errors.As(err, &validation):
		return validation.Error()
	}
	return err.Error()
}

// Code returns a short label for err, used as a metrics dimension.
func Code(err error) string {
	var api *APIError
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "not_found"
	case IsTokenFailure(err):
		return "token"
	case IsValidation(err):
		return "validation"
	case errors.As(err, &api):
		return api.Code
	}
	var (
		response *ResponseError
		httpErr  *HTTPError
	)
	if errors.As(err, &response) {
		return "bad_response"
	}
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("http_%d", httpErr.StatusCode)
	}
	return "transport"
}

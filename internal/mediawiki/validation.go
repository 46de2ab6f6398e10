package mediawiki

import (
	"strings"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
)

// validateTitle rejects blank page titles before any request is made.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apierrors.NewValidationError("title", "is required")
	}
	return nil
}

// validateQuery rejects blank search text.
func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return apierrors.NewValidationError("query", "is required")
	}
	return nil
}

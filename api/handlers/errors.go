// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"errors"

	coreerrors "songfinder-bot/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if coreerrors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	if providerErr, ok := coreerrors.AsProviderError(err); ok {
		switch providerErr.Kind {
		case coreerrors.KindNoResults:
			return huma.Error404NotFound(providerErr.Reason)
		case coreerrors.KindCredentialMissing:
			return huma.Error503ServiceUnavailable("Lyrics provider is not configured")
		case coreerrors.KindTransport:
			// The cause can carry the provider's response body, it is logged by the search service
			var apiErr *coreerrors.ExternalAPIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
				return huma.Error429TooManyRequests("Rate limited by lyrics provider")
			}
			return huma.Error502BadGateway("Lyrics provider request failed")
		}
	}

	return huma.Error500InternalServerError("Internal server error")
}

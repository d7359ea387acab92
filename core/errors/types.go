// ABOUTME: Custom error types for the core business logic
// ABOUTME: Separates configuration, provider and speech failures so callers can branch on them

package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError represents a missing or invalid setting detected at startup
type ConfigurationError struct {
	Setting string
	Message string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on '%s': %s", e.Setting, e.Message)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents a non-2xx answer from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// ProviderErrorKind classifies a failed lyric search
type ProviderErrorKind int

const (
	// KindCredentialMissing means no provider API key is configured
	KindCredentialMissing ProviderErrorKind = iota
	// KindTransport covers network failures, non-2xx answers and undecodable bodies
	KindTransport
	// KindNoResults means the provider answered successfully with zero hits
	KindNoResults
)

// String returns the kind name used in logs and API responses
func (k ProviderErrorKind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindTransport:
		return "transport"
	case KindNoResults:
		return "no_results"
	default:
		return "unknown"
	}
}

// ProviderError is the failure branch of a lyric search
type ProviderError struct {
	Kind     ProviderErrorKind
	Provider string
	Reason   string
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap returns the underlying cause
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewCredentialMissingError builds the failure returned when no API key is configured
func NewCredentialMissingError(provider string) *ProviderError {
	return &ProviderError{
		Kind:     KindCredentialMissing,
		Provider: provider,
		Reason:   provider + " API key not configured",
	}
}

// NewTransportError wraps a network, status or decoding failure
func NewTransportError(provider string, err error) *ProviderError {
	return &ProviderError{
		Kind:     KindTransport,
		Provider: provider,
		Reason:   "Error searching",
		Err:      err,
	}
}

// NewNoResultsError builds the failure returned for a successful search with zero hits
func NewNoResultsError(provider string) *ProviderError {
	return &ProviderError{
		Kind:     KindNoResults,
		Provider: provider,
		Reason:   "No songs found matching those lyrics",
	}
}

// SpeechErrorKind classifies a failed voice transcription
type SpeechErrorKind int

const (
	// SpeechUnintelligible means the audio contained no recognizable speech
	SpeechUnintelligible SpeechErrorKind = iota
	// SpeechNetwork means the recognition service could not be reached
	SpeechNetwork
	// SpeechService means the recognition service rejected or failed the request
	SpeechService
)

// String returns the kind name used in logs
func (k SpeechErrorKind) String() string {
	switch k {
	case SpeechUnintelligible:
		return "unintelligible"
	case SpeechNetwork:
		return "network"
	case SpeechService:
		return "service"
	default:
		return "unknown"
	}
}

// SpeechError is the failure branch of a voice transcription
type SpeechError struct {
	Kind SpeechErrorKind
	Err  error
}

// Error implements the error interface
func (e *SpeechError) Error() string {
	if e.Err == nil {
		return "speech recognition failed: " + e.Kind.String()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *SpeechError) Unwrap() error {
	return e.Err
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// AsProviderError extracts a ProviderError from the chain
func AsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// IsNoResults checks if an error is a zero-hit search
func IsNoResults(err error) bool {
	providerErr, ok := AsProviderError(err)
	return ok && providerErr.Kind == KindNoResults
}

// IsCredentialMissing checks if an error comes from a missing provider key
func IsCredentialMissing(err error) bool {
	providerErr, ok := AsProviderError(err)
	return ok && providerErr.Kind == KindCredentialMissing
}

// IsTransport checks if an error is a transport or decoding failure
func IsTransport(err error) bool {
	providerErr, ok := AsProviderError(err)
	return ok && providerErr.Kind == KindTransport
}

// AsSpeechError extracts a SpeechError from the chain
func AsSpeechError(err error) (*SpeechError, bool) {
	var speechErr *SpeechError
	if errors.As(err, &speechErr) {
		return speechErr, true
	}
	return nil, false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeGeocode represents geocoding collaborator errors
	ErrorTypeGeocode ErrorType = "geocode"
	// ErrorTypeStorage represents storage sink errors
	ErrorTypeStorage ErrorType = "storage"
)

// ScraperError represents an error raised by one of the scraper's collaborators
type ScraperError struct {
	Type     ErrorType
	Provider string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Provider, e.Message)
}

// Unwrap returns the underlying error
func (e *ScraperError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a caller-side retry could succeed.
// Nothing inside the scraper retries; the flag is informational for callers.
func (e *ScraperError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeGeocode:
		return true
	default:
		return false
	}
}

// New creates a new ScraperError
func New(errType ErrorType, provider, message string, err error) *ScraperError {
	return &ScraperError{
		Type:     errType,
		Provider: provider,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(provider, message string, err error) *ScraperError {
	return New(ErrorTypeNetwork, provider, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(provider, message string, err error) *ScraperError {
	return New(ErrorTypeParsing, provider, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(provider string, duration time.Duration) *ScraperError {
	return New(ErrorTypeRateLimit, provider, fmt.Sprintf("rate limited for %v", duration), nil)
}

// NewCache creates a new cache error
func NewCache(provider, message string, err error) *ScraperError {
	return New(ErrorTypeCache, provider, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(provider, message string, err error) *ScraperError {
	return New(ErrorTypePublisher, provider, message, err)
}

// NewValidation creates a new validation error
func NewValidation(provider, message string) *ScraperError {
	return New(ErrorTypeValidation, provider, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScraperError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewGeocode creates a new geocoding error
func NewGeocode(provider, message string, err error) *ScraperError {
	return New(ErrorTypeGeocode, provider, message, err)
}

// NewStorage creates a new storage error
func NewStorage(provider, message string, err error) *ScraperError {
	return New(ErrorTypeStorage, provider, message, err)
}

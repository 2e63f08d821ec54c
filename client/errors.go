package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hyperunit-sdk/shared"
)

// UnitError is the base error type for all client errors
type UnitError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *UnitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *UnitError) Unwrap() error {
	return e.Cause
}

// NetworkError means no HTTP response was received
type NetworkError struct {
	*UnitError
	URL string `json:"url"`
}

// NewNetworkError creates a new network error
func NewNetworkError(url string, cause error) *NetworkError {
	return &NetworkError{
		UnitError: &UnitError{
			Type:    "network_error",
			Message: "no response received from " + url,
			Cause:   cause,
		},
		URL: url,
	}
}

// TimeoutError means the request deadline passed before a response arrived
type TimeoutError struct {
	*UnitError
	Timeout time.Duration `json:"timeout"`
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(url string, timeout time.Duration, cause error) *TimeoutError {
	return &TimeoutError{
		UnitError: &UnitError{
			Type:    "timeout_error",
			Message: fmt.Sprintf("request to %s timed out after %s", url, timeout),
			Cause:   cause,
		},
		Timeout: timeout,
	}
}

// APIError is a non-2xx answer from the bridge
type APIError struct {
	*UnitError
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Details []byte `json:"details,omitempty"` // raw response body
}

// NewAPIError creates a new API error. message falls back to the status text.
func NewAPIError(status int, code, message string, details []byte) *APIError {
	if message == "" {
		message = "API request failed"
		if text := http.StatusText(status); text != "" {
			message += ": " + text
		}
	}
	return &APIError{
		UnitError: &UnitError{
			Type:    "api_error",
			Message: fmt.Sprintf("%s (status %d)", message, status),
		},
		Status:  status,
		Code:    code,
		Details: details,
	}
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// ResponseError means a 2xx body could not be decoded or failed schema checks
type ResponseError struct {
	*UnitError
	Endpoint string `json:"endpoint"`
}

// NewResponseError creates a new response error
func NewResponseError(endpoint, message string, cause error) *ResponseError {
	return &ResponseError{
		UnitError: &UnitError{
			Type:    "response_error",
			Message: fmt.Sprintf("invalid response from %s: %s", endpoint, message),
			Cause:   cause,
		},
		Endpoint: endpoint,
	}
}

// ValidationError represents request parameters rejected before any network call
type ValidationError struct {
	*UnitError
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		UnitError: &UnitError{
			Type:    "validation_error",
			Message: fmt.Sprintf("Validation error for field '%s': %s", field, message),
		},
		Field: field,
		Value: value,
	}
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	*UnitError
	Field string `json:"field"`
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field string, message string) *ConfigurationError {
	return &ConfigurationError{
		UnitError: &UnitError{
			Type:    "configuration_error",
			Message: fmt.Sprintf("Configuration error in field '%s': %s", field, message),
		},
		Field: field,
	}
}

// isRetryable decides which transport failures are worth another attempt.
func isRetryable(err error) bool {
	var (
		netErr     *NetworkError
		timeoutErr *TimeoutError
		apiErr     *APIError
		unitErr    *UnitError
	)
	switch {
	case errors.As(err, &netErr), errors.As(err, &timeoutErr):
		return true
	case errors.As(err, &apiErr):
		return apiErr.Temporary()
	case errors.As(err, &unitErr):
		return false
	}
	return shared.IsRetryableError(err)
}

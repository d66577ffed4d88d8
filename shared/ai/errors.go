package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyPrompt is returned before any network call when the user supplied no text.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// ConfigurationError reports an unknown category or a missing credential. It is not retryable.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Reason)
}

// TransportError reports a non-2xx response, a network failure or a timeout.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("completion request timed out: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("completion API error: %s: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("completion request failed: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same request may succeed.
func (e *TransportError) Retryable() bool {
	if e.Timeout || e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// EmptyResponseError reports a well-formed response that carried no completion text.
type EmptyResponseError struct {
	Provider string
	Err      error
}

func (e *EmptyResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no content received from %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("no content received from %s", e.Provider)
}

func (e *EmptyResponseError) Unwrap() error { return e.Err }

// ExtractionError reports completion text with no parseable JSON object.
// Raw holds the original text so callers can show it instead of guessing.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("invalid JSON response from model: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsEmptyResponse(err error) bool {
	var target *EmptyResponseError
	return errors.As(err, &target)
}

func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}

// IsRetryable reports whether the caller may retry the request that produced err.
func IsRetryable(err error) bool {
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Retryable()
	}
	return IsEmptyResponse(err)
}

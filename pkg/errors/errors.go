// Package errors provides typed errors for itms-publisher
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrDirectoryUnavailable indicates the report folder is missing or cannot be listed
	ErrDirectoryUnavailable
	// ErrFileRead indicates a report file could not be read
	ErrFileRead
	// ErrNetwork indicates a request to a remote service failed before a response arrived
	ErrNetwork
)

// PublisherError is the base error type for all itms-publisher errors
type PublisherError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *PublisherError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *PublisherError) Unwrap() error {
	return e.Cause
}

// New creates a new PublisherError
func New(errType ErrorType, message string, cause error) *PublisherError {
	return &PublisherError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *PublisherError) WithContext(key string, value interface{}) *PublisherError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var pubErr *PublisherError
	if err == nil {
		return false
	}
	if errors.As(err, &pubErr) {
		return pubErr.Type == errType
	}
	return false
}

// ShouldFailBuild returns true if the error should fail the CLI invocation.
// Per-file problems never do; the publish step always completes.
func ShouldFailBuild(err error) bool {
	var pubErr *PublisherError
	if !errors.As(err, &pubErr) {
		return false
	}

	switch pubErr.Type {
	case ErrConfig, ErrValidation:
		return true
	default:
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrDirectoryUnavailable:
		return "DIRECTORY"
	case ErrFileRead:
		return "FILE_READ"
	case ErrNetwork:
		return "NETWORK"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *PublisherError {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *PublisherError {
	return New(ErrValidation, message, cause)
}

// DirectoryUnavailable creates a report folder error
func DirectoryUnavailable(dir string, cause error) *PublisherError {
	return New(ErrDirectoryUnavailable, "report folder is unavailable", cause).WithContext("dir", dir)
}

// FileReadError creates a report file read error
func FileReadError(name string, cause error) *PublisherError {
	return New(ErrFileRead, fmt.Sprintf("failed to read %s", name), cause).WithContext("file", name)
}

// NetworkError creates a network error
func NetworkError(message string, cause error) *PublisherError {
	return New(ErrNetwork, message, cause)
}

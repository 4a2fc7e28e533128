package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies domain-specific errors for response mapping.
type ErrorType string

const (
	// ErrorTypeValidation covers malformed or empty input. Never retried.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeExtraction means every cascade layer produced text below the
	// validity threshold. Not retried internally.
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeSessionNotFound means a lookup hit an id with no live record.
	ErrorTypeSessionNotFound ErrorType = "session_not_found"
	// ErrorTypeGeneration covers transport, timeout, or malformed responses
	// from the generation service. Retryable by the caller: session state is
	// immutable, so re-issuing the request is idempotent.
	ErrorTypeGeneration ErrorType = "generation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error.
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func ExtractionFailure(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

func SessionNotFound(id string) *DomainError {
	return NewError(ErrorTypeSessionNotFound, fmt.Sprintf("session not found: %s", id), nil)
}

func GenerationError(message string, err error) *DomainError {
	return NewError(ErrorTypeGeneration, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// IsType reports whether err is (or wraps) a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == errType
	}
	return false
}

// Package errors defines the typed error taxonomy shared by the pipeline
// stages and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies application errors.
type ErrorType string

const (
	// ErrTypeMissingInput marks a required raw table file that is absent.
	// Fatal for the integration stage: the pipeline halts and reports the
	// missing path without writing partial output.
	ErrTypeMissingInput ErrorType = "MISSING_INPUT"

	// ErrTypeMissingProcessed marks a downstream consumer finding no cleaned
	// table. A guided halt, not a crash: the message tells the operator to
	// run the pipeline first.
	ErrTypeMissingProcessed ErrorType = "MISSING_PROCESSED_DATA"

	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError is the application-specific error carried across stage
// boundaries. Data-quality findings are never AppErrors: they are counted
// and logged as warnings while execution continues.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewMissingInputError reports an absent raw input table.
func NewMissingInputError(path string, cause error) *AppError {
	e := NewAppError(ErrTypeMissingInput,
		fmt.Sprintf("required input file is missing: %s (run the generator first)", path), cause)
	return e.WithContext("path", path)
}

// NewMissingProcessedError reports an absent cleaned master table.
func NewMissingProcessedError(path string) *AppError {
	e := NewAppError(ErrTypeMissingProcessed,
		fmt.Sprintf("cleaned dataset not found at %s: run the pipeline first", path), nil)
	return e.WithContext("path", path)
}

// NewParsingError creates a parsing error for malformed rows; the loader
// propagates these to the caller as data-quality failures.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage error.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is, or wraps, an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeMissingInput marks a required source file that cannot be
	// located. Always fatal; the run aborts naming the missing input.
	ErrTypeMissingInput ErrorType = "MISSING_INPUT"

	// ErrTypeSchemaMismatch marks an input table whose header matched none
	// of the known column name variants. Fatal after alternates exhausted.
	ErrTypeSchemaMismatch ErrorType = "SCHEMA_MISMATCH"

	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewMissingInputError creates the fatal error for a required input file
// that cannot be located. The message names both the input and the path so
// the failure is actionable without reading logs.
func NewMissingInputError(input, path string, cause error) *AppError {
	return NewAppError(ErrTypeMissingInput,
		fmt.Sprintf("required input %s not found at %s", input, path), cause).
		WithContext("input", input).
		WithContext("path", path)
}

// NewSchemaMismatchError creates the fatal error for a table column that
// matched none of its known header variants. The tried variants go into the
// message so header drift is diagnosable from the abort line alone.
func NewSchemaMismatchError(table, field string, tried []string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch,
		fmt.Sprintf("table %s has no column for %s (tried: %s)", table, field, strings.Join(tried, ", ")), nil).
		WithContext("table", table).
		WithContext("field", field)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

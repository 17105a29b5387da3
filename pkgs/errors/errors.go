package errors

import (
	"errors"
	"fmt"
)

// Error types for different categories of failures
const (
	// Vocabulary errors
	ErrVocabularyRead    = "VOCABULARY_READ_ERROR"
	ErrVocabularyParse   = "VOCABULARY_PARSE_ERROR"
	ErrVocabularySchema  = "VOCABULARY_SCHEMA_ERROR"
	ErrVocabularyVersion = "VOCABULARY_VERSION_ERROR"
	ErrVocabularyInvalid = "VOCABULARY_INVALID"

	// Dispatch errors
	ErrHandlerFailed = "HANDLER_FAILED"

	// Environment errors
	ErrConfig = "CONFIG_ERROR"
)

// DialError represents a structured error with type and context
type DialError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *DialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *DialError) Unwrap() error {
	return e.Cause
}

// New creates a new DialError
func New(errorType, message string) *DialError {
	return &DialError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new DialError wrapping an existing error
func Wrap(errorType, message string, cause error) *DialError {
	return &DialError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *DialError) WithContext(key string, value interface{}) *DialError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *DialError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Helper functions for common error scenarios

// NewReadError creates an error for a vocabulary source that could not be read
func NewReadError(path string, cause error) *DialError {
	return Wrap(ErrVocabularyRead, fmt.Sprintf("cannot read vocabulary '%s'", path), cause).
		WithContext("path", path)
}

// NewParseError creates an error for a vocabulary document that is not valid YAML
func NewParseError(message string, cause error) *DialError {
	return Wrap(ErrVocabularyParse, message, cause)
}

// NewSchemaError creates an error for a document rejected by the vocabulary schema
func NewSchemaError(cause error) *DialError {
	return Wrap(ErrVocabularySchema, "vocabulary does not match schema", cause)
}

// NewVersionError creates an error for an unsupported vocabulary version
func NewVersionError(version, supported string) *DialError {
	return New(ErrVocabularyVersion, fmt.Sprintf("unsupported vocabulary version '%s' (want %s.x.x)", version, supported)).
		WithContext("version", version).
		WithContext("supported", supported)
}

// NewInvalidError joins every validation problem found while building a registry
func NewInvalidError(problems []error) *DialError {
	return Wrap(ErrVocabularyInvalid, fmt.Sprintf("%d problem(s) in vocabulary", len(problems)), errors.Join(problems...)).
		WithContext("problems", len(problems))
}

// NewHandlerError creates an error for a handler that failed during dispatch
func NewHandlerError(command string, cause error) *DialError {
	return Wrap(ErrHandlerFailed, fmt.Sprintf("handler for '%s' failed", command), cause).
		WithContext("command", command)
}

// NewConfigError creates an error for an unusable environment configuration
func NewConfigError(cause error) *DialError {
	return Wrap(ErrConfig, "invalid configuration", cause)
}

// IsErrorType checks if an error is of a specific type anywhere in its chain
func IsErrorType(err error, errorType string) bool {
	var dialErr *DialError
	if errors.As(err, &dialErr) {
		return dialErr.Type == errorType
	}
	return false
}

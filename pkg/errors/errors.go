// Package errors provides typed errors for secure-secrets
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a missing or invalid configuration/property
	ErrConfig ErrorType = iota
	// ErrMissingSecretValue indicates a declared secret without a value for the active build type
	ErrMissingSecretValue
	// ErrMissingTargetFile indicates a native or bridge file that has not been staged
	ErrMissingTargetFile
	// ErrMalformedTarget indicates a target file whose structure cannot be merged into
	ErrMalformedTarget
	// ErrEncoding indicates an obfuscation failure
	ErrEncoding
	// ErrIO indicates a filesystem failure
	ErrIO
)

// Exit codes returned by the CLI.
const (
	ExitSuccess   = 0
	ExitConfig    = 1
	ExitInjection = 2
)

// SecretsError is the base error type for all secure-secrets errors
type SecretsError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *SecretsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *SecretsError) Unwrap() error {
	return e.Cause
}

// New creates a new SecretsError
func New(errType ErrorType, message string, cause error) *SecretsError {
	return &SecretsError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *SecretsError) WithContext(key string, value interface{}) *SecretsError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var secretsErr *SecretsError
	if err == nil {
		return false
	}
	if errors.As(err, &secretsErr) {
		return secretsErr.Type == errType
	}
	return false
}

// ExitCode maps an error to the CLI exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsType(err, ErrConfig) {
		return ExitConfig
	}
	var secretsErr *SecretsError
	if !errors.As(err, &secretsErr) {
		// cobra usage errors and the like
		return ExitConfig
	}
	return ExitInjection
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrMissingSecretValue:
		return "MISSING_SECRET_VALUE"
	case ErrMissingTargetFile:
		return "MISSING_TARGET_FILE"
	case ErrMalformedTarget:
		return "MALFORMED_TARGET"
	case ErrEncoding:
		return "ENCODING"
	case ErrIO:
		return "IO"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *SecretsError {
	return New(ErrConfig, message, cause)
}

// MissingSecretValue creates an error for a declared secret without a value.
func MissingSecretValue(property string) *SecretsError {
	return New(ErrMissingSecretValue,
		fmt.Sprintf("no value for property %s, check build_type_keys for this variant", property), nil).
		WithContext("property", property)
}

// MissingTargetFile creates an error for a target file that was never staged.
// hint names the command that stages it.
func MissingTargetFile(path, hint string) *SecretsError {
	return New(ErrMissingTargetFile,
		fmt.Sprintf("missing %s, please run: secure-secrets %s", path, hint), nil).
		WithContext("path", path)
}

// MalformedTarget creates an error for a target file that cannot be merged.
func MalformedTarget(path, message string) *SecretsError {
	return New(ErrMalformedTarget, fmt.Sprintf("%s: %s", path, message), nil).
		WithContext("path", path)
}

// EncodingError creates an obfuscation error
func EncodingError(message string, cause error) *SecretsError {
	return New(ErrEncoding, message, cause)
}

// IOError creates a filesystem error
func IOError(message string, cause error) *SecretsError {
	return New(ErrIO, message, cause)
}

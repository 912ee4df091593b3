package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ConfigPathSeparator joins config keys in MissingConfig messages.
const ConfigPathSeparator = " -> "

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// ReflectionFailed reports that a class identity cannot be introspected.
func ReflectionFailed(class string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeReflectionFailed, Message: fmt.Sprintf("Unable to reflect class %s.", class),
		Details: map[string]any{"class": class}, Cause: cause,
	}
}

// NoParameterMatch reports that none of a parameter's aliases are available.
func NoParameterMatch(class, parameter string) *AppError {
	return &AppError{
		Code:    ErrCodeNoParameterMatch,
		Message: fmt.Sprintf("Unable to auto-wire parameter %s of class %s.", parameter, class),
		Details: map[string]any{"class": class, "parameter": parameter},
	}
}

// ParameterTypeMismatch reports a resolved value that cannot be passed to its parameter.
func ParameterTypeMismatch(class, parameter, want, got string) *AppError {
	return &AppError{
		Code: ErrCodeParameterTypeMismatch,
		Message: fmt.Sprintf("Parameter %s of class %s expects %s, got %s.",
			parameter, class, want, got),
		Details: map[string]any{"class": class, "parameter": parameter, "expected": want, "actual": got},
	}
}

// ConstructionFailed wraps any failure raised while constructing class.
func ConstructionFailed(class string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstructionFailed, Message: fmt.Sprintf("Failed to construct %s.", class),
		Details: map[string]any{"class": class}, Cause: cause,
	}
}

// MissingConfig reports a nested configuration key path that could not be read.
func MissingConfig(keys []string) *AppError {
	path := strings.Join(keys, ConfigPathSeparator)
	return &AppError{
		Code: ErrCodeMissingConfig, Message: fmt.Sprintf("Failed to read config: %s", path),
		Details: map[string]any{"keys": append([]string(nil), keys...), "path": path},
	}
}

// InvalidConfig reports a configuration value with an unexpected shape.
func InvalidConfig(keys []string, reason string) *AppError {
	path := strings.Join(keys, ConfigPathSeparator)
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid config at %s: %s", path, reason),
		Details: map[string]any{"keys": append([]string(nil), keys...), "path": path},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// StoreFailed reports a backing-store read or write failure.
func StoreFailed(location, operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStoreFailed, Message: fmt.Sprintf("Failed to %s alias cache at %s.", operation, location),
		Retryable: true,
		Details:   map[string]any{"store": location, "operation": operation}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.", Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FindCode returns the first AppError in err's chain carrying code.
func FindCode(err error, code ErrorCode) (*AppError, bool) {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return appErr, true
		}
		err = stderrors.Unwrap(err)
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	_, ok := FindCode(err, code)
	return ok
}

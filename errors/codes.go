package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors
const (
	// ErrCodeReflectionFailed indicates a class identity could not be introspected.
	ErrCodeReflectionFailed ErrorCode = "REFLECTION_FAILED"
	// ErrCodeNoParameterMatch indicates no alias of a parameter was available.
	ErrCodeNoParameterMatch ErrorCode = "NO_PARAMETER_MATCH"
	// ErrCodeParameterTypeMismatch indicates a resolved value cannot be passed to its parameter.
	ErrCodeParameterTypeMismatch ErrorCode = "PARAMETER_TYPE_MISMATCH"
	// ErrCodeConstructionFailed indicates construction of a class failed.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
)

// Configuration errors
const (
	// ErrCodeMissingConfig indicates a nested configuration key path was not resolvable.
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"
	// ErrCodeInvalidConfig indicates a configuration value has an unexpected shape.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Infrastructure errors
const (
	// ErrCodeStoreFailed indicates a backing-store read or write failed.
	ErrCodeStoreFailed ErrorCode = "STORE_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStoreFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in autowire retries on its own; this only classifies.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Table errors. Unsupported and missing definitions only skip the
	// table they belong to; an ambiguous core prefix aborts the run.
	ErrUnsupportedFieldKind    ErrorCode = "UNSUPPORTED_FIELD_KIND"
	ErrMissingSchemaDefinition ErrorCode = "MISSING_SCHEMA_DEFINITION"
	ErrAmbiguousCorePrefix     ErrorCode = "AMBIGUOUS_CORE_PREFIX"
	ErrTableDecode             ErrorCode = "TABLE_DECODE"

	// Schema errors
	ErrSchemaLoad    ErrorCode = "SCHEMA_LOAD"
	ErrSchemaInvalid ErrorCode = "SCHEMA_INVALID"

	// Source errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrSourceInvalid  ErrorCode = "SOURCE_INVALID"
	ErrSourceAccess   ErrorCode = "SOURCE_ACCESS"

	// Output errors
	ErrOutDirNotEmpty ErrorCode = "OUT_DIR_NOT_EMPTY"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
	ErrFileWrite      ErrorCode = "FILE_WRITE"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
	ErrReportWrite    ErrorCode = "REPORT_WRITE"
)

// LuadbError represents a structured error with code and details
type LuadbError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LuadbError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LuadbError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LuadbError) Is(target error) bool {
	var targetErr *LuadbError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LuadbError with the given code and message
func New(code ErrorCode, message string) *LuadbError {
	return &LuadbError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LuadbError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LuadbError {
	return &LuadbError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LuadbError
func Wrap(err error, code ErrorCode, message string) *LuadbError {
	if err == nil {
		return nil
	}
	return &LuadbError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LuadbError {
	if err == nil {
		return nil
	}
	return &LuadbError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LuadbError) WithDetail(key string, value interface{}) *LuadbError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LuadbError) WithDetails(details map[string]interface{}) *LuadbError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var luadbErr *LuadbError
	if errors.As(err, &luadbErr) {
		return luadbErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LuadbError
func GetErrorCode(err error) ErrorCode {
	var luadbErr *LuadbError
	if errors.As(err, &luadbErr) {
		return luadbErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LuadbError
func GetErrorDetails(err error) map[string]interface{} {
	var luadbErr *LuadbError
	if errors.As(err, &luadbErr) {
		return luadbErr.Details
	}
	return nil
}

// IsTableLevel reports whether err only affects the table it was raised for.
// Everything else is a run-level failure.
func IsTableLevel(err error) bool {
	switch GetErrorCode(err) {
	case ErrUnsupportedFieldKind, ErrMissingSchemaDefinition, ErrTableDecode:
		return true
	}
	return false
}

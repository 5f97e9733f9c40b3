// Package errors defines common error types for the partitioner.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown         = "UNKNOWN_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeDegenerateRange = "DEGENERATE_RANGE"
	CodeNumericError    = "NUMERIC_ERROR"
	CodeIOError         = "IO_ERROR"
	CodeParseError      = "PARSE_ERROR"
	CodeConfigError     = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common error instances.
var (
	ErrInvalidArgument = New(CodeInvalidArgument, "invalid argument")
	ErrDegenerateRange = New(CodeDegenerateRange, "degenerate coordinate range")
	ErrNumericError    = New(CodeNumericError, "numeric anomaly")
	ErrIOError         = New(CodeIOError, "input/output error")
	ErrParseError      = New(CodeParseError, "parse error")
	ErrConfigError     = New(CodeConfigError, "configuration error")
)

// IsInvalidArgument checks if the error is an invalid-argument error, the
// taxonomy entry for malformed input shapes: mismatched hierarchy-level
// products, out-of-range dimensions, negative epsilon, and similar.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsDegenerateRange checks if the error is a degenerate-range error, raised
// when a coordinate axis has zero extent across the whole point cloud.
func IsDegenerateRange(err error) bool {
	return errors.Is(err, ErrDegenerateRange)
}

// IsNumericError checks if the error is a numeric error, the taxonomy
// entry for NaN or Inf anomalies. No code path in this module returns it.
func IsNumericError(err error) bool {
	return errors.Is(err, ErrNumericError)
}

// IsIOError checks if the error is an input/output error.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIOError)
}

// IsParseError checks if the error is a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParseError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ErrorInfo provides error information mapping for diagnostics tooling.
var ErrorInfo = map[string]string{
	"InvalidArgument": CodeInvalidArgument,
	"DegenerateRange": CodeDegenerateRange,
	"NumericError":    CodeNumericError,
	"IOError":         CodeIOError,
	"ParseError":      CodeParseError,
}

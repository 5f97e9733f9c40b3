package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeDegenerateRange, "coordinate range has zero extent"),
			expected: "[DEGENERATE_RANGE] coordinate range has zero extent",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeNumericError, "influence update diverged", errors.New("value is NaN")),
			expected: "[NUMERIC_ERROR] influence update diverged: value is NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeNumericError, "bound computation failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeInvalidArgument, "error 1")
	err2 := New(CodeInvalidArgument, "error 2")
	err3 := New(CodeDegenerateRange, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsInvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "invalid argument error",
			err:      ErrInvalidArgument,
			expected: true,
		},
		{
			name:     "wrapped invalid argument error",
			err:      Wrap(CodeInvalidArgument, "hierLevels product does not equal numBlocks", errors.New("16 != 12")),
			expected: true,
		},
		{
			name:     "other error",
			err:      ErrDegenerateRange,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInvalidArgument(tt.err))
		})
	}
}

func TestIsDegenerateRange(t *testing.T) {
	assert.True(t, IsDegenerateRange(ErrDegenerateRange))
	assert.False(t, IsDegenerateRange(ErrInvalidArgument))
}

func TestIsNumericError(t *testing.T) {
	assert.True(t, IsNumericError(ErrNumericError))
	assert.False(t, IsNumericError(ErrInvalidArgument))
}

func TestIsIOError(t *testing.T) {
	assert.True(t, IsIOError(ErrIOError))
	assert.False(t, IsIOError(ErrInvalidArgument))
}

func TestIsParseError(t *testing.T) {
	assert.True(t, IsParseError(ErrParseError))
	assert.False(t, IsParseError(ErrInvalidArgument))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeDegenerateRange, "range error"),
			expected: CodeDegenerateRange,
		},
		{
			name:     "wrapped app error",
			err:      Wrap(CodeNumericError, "diverged", errors.New("inner")),
			expected: CodeNumericError,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: CodeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeDegenerateRange, "range has zero extent"),
			expected: "range has zero extent",
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: "standard error",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorMessage(tt.err))
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidArgument, "hierLevels product %d does not equal numBlocks %d", 16, 12)
	assert.Equal(t, CodeInvalidArgument, err.Code)
	assert.Equal(t, "hierLevels product 16 does not equal numBlocks 12", err.Message)
}

func TestErrorInfo(t *testing.T) {
	assert.Equal(t, CodeInvalidArgument, ErrorInfo["InvalidArgument"])
	assert.Equal(t, CodeDegenerateRange, ErrorInfo["DegenerateRange"])
	assert.Equal(t, CodeNumericError, ErrorInfo["NumericError"])
	assert.Equal(t, CodeIOError, ErrorInfo["IOError"])
	assert.Equal(t, CodeParseError, ErrorInfo["ParseError"])
}

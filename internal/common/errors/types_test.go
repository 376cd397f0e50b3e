package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	t.Run("type and message", func(t *testing.T) {
		err := ValidationError("title is required")
		assert.Equal(t, "validation: title is required", err.Error())
	})

	t.Run("includes code and cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := BackendError("backend call failed", cause).WithCode("GEMINI_503")
		assert.Contains(t, err.Error(), "backend_unavailable")
		assert.Contains(t, err.Error(), "code=GEMINI_503")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := InternalError("wrapper", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestTimeParseError(t *testing.T) {
	err := TimeParseError("not a date")
	assert.Equal(t, ErrTypeTimeParse, err.Type)
	assert.Contains(t, err.Message, `"not a date"`)
	assert.Equal(t, "not a date", err.Context["suggested_time"])
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"matching type", ResponseShapeError("missing suggestedTime"), ErrTypeBadResponse, true},
		{"non-matching type", TimeoutError("suggest"), ErrTypeBadResponse, false},
		{"plain error", errors.New("plain"), ErrTypeInternal, false},
		{"nil error", nil, ErrTypeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrTypeBackend, GetType(BackendError("down", nil)))
	assert.Equal(t, ErrTypeInternal, GetType(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetType(nil))
}

package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenupapp/readingorder/internal/errors"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeAlreadyExists, http.StatusConflict},
		{errors.CodeConflict, http.StatusConflict},
		{errors.CodeValidation, http.StatusBadRequest},
		{errors.CodeTooManyRequests, http.StatusTooManyRequests},
		{errors.CodeUnavailable, http.StatusServiceUnavailable},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("change mode: %w", errors.Validationf("unknown reading order %q", "by-mood"))

	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.False(t, errors.Is(err, errors.ErrNotFound))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(cause, errors.CodeInternal, "save series")

	assert.Equal(t, "save series: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWithDetails(t *testing.T) {
	err := errors.Validation("validation failed").WithDetails(map[string]string{"mode": "is invalid"})

	assert.Equal(t, map[string]string{"mode": "is invalid"}, err.Details)
	assert.Equal(t, errors.CodeValidation, err.Code)
}

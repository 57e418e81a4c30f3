package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{ErrGone, http.StatusGone},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err))
	}
}

func TestStatusCodeWrapped(t *testing.T) {
	err := fmt.Errorf("while completing order: %w", ErrConflict)
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestAppError(t *testing.T) {
	err := New(ErrConflict, "order is already completed")
	assert.Equal(t, "order is already completed", err.Error())
	assert.Equal(t, http.StatusConflict, StatusCode(err))
	assert.ErrorIs(t, err, ErrConflict)

	override := New(ErrInternal, "upstream failed").WithStatus(http.StatusBadGateway)
	assert.Equal(t, http.StatusBadGateway, StatusCode(override))
}

package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New("GEN_002", "bad amount")
	assert.Equal(t, "[GEN_002] bad amount", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), "STORE_002", "save transaction")
	assert.Equal(t, "[STORE_002] save transaction: disk full", wrapped.Error())
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := Wrap(fmt.Errorf("record missing"), ErrNotFound.Code, "event 42")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrBadRequest))

	outer := fmt.Errorf("handler: %w", err)
	assert.True(t, Is(outer, ErrNotFound))
	assert.True(t, IsAppError(outer))
	assert.Equal(t, "GEN_001", GetCode(outer))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{Wrap(fmt.Errorf("x"), ErrBadRequest.Code, "invalid body"), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrLLMUnavailable, http.StatusServiceUnavailable},
		{ErrStoreWrite, http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, HTTPStatus(test.err), "%v", test.err)
	}
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPerKind(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		kind   Kind
	}{
		{NotFound("x"), http.StatusNotFound, KindNotFound},
		{Forbidden("x"), http.StatusForbidden, KindForbidden},
		{BadRequest("x"), http.StatusBadRequest, KindBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized, KindUnauthorized},
		{Validation(map[string]string{"a": "b"}), http.StatusUnprocessableEntity, KindValidation},
		{Conflict("x"), http.StatusConflict, KindConflict},
		{Unconfigured("x"), http.StatusNotImplemented, KindUnconfigured},
		{Upstream(http.StatusBadRequest, "x", nil), http.StatusBadRequest, KindUpstream},
		{Internal("x", nil), http.StatusInternalServerError, KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status, tc.kind)
		assert.Equal(t, tc.kind, tc.err.Kind)
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	cause := errors.New("card declined")
	wrapped := fmt.Errorf("stripe: %w", Upstream(http.StatusBadRequest, "Payment failed", cause))

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Payment failed: card declined", e.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, Is(wrapped, KindUpstream))
	assert.False(t, Is(errors.New("plain"), KindUpstream))
}

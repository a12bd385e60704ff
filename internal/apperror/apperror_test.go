package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindAuthorization, http.StatusForbidden},
		{KindValidation, http.StatusBadRequest},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &Error{Kind: tt.kind, Message: "boom"}
			assert.Equal(t, tt.want, e.HTTPStatus())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	e := NotFound("exam session not found")
	assert.Equal(t, "not_found: exam session not found", e.Error())

	wrapped := Internal("query failed", errors.New("connection reset"))
	assert.Equal(t, "internal: query failed: connection reset", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := Internal("wrapper", cause)
	assert.ErrorIs(t, e, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// Kind survives further wrapping.
	wrapped := fmt.Errorf("context: %w", Authorization("nope"))
	assert.Equal(t, KindAuthorization, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindAuthorization))
}

package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("invalid_minutes", "bad minutes"), http.StatusBadRequest},
		{Auth("invalid_credentials", "nope"), http.StatusUnauthorized},
		{Forbidden("not_participant", "nope"), http.StatusForbidden},
		{NotFound("round_not_found", "nope"), http.StatusNotFound},
		{Conflict("round_exists", "nope"), http.StatusConflict},
		{RoundState("round_closed", "nope"), http.StatusConflict},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.Status, c.err.Code)
		assert.NotEmpty(t, c.err.Error())
	}
}

func TestFrom(t *testing.T) {
	orig := NotFound("round_not_found", "round not found")
	assert.Same(t, orig, From(orig))

	wrapped := From(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
	assert.Equal(t, "internal", wrapped.Code)
}

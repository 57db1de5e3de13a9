package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := NotFound("article not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("x: %w", Validation("url", "bad"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestWrap_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(KindFetch, "wikipedia unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "wikipedia unreachable")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:          422,
		KindUnauthenticated:     401,
		KindForbidden:           403,
		KindNotFound:            404,
		KindConflict:            409,
		KindFetch:               502,
		KindProvider:            502,
		KindProviderUnavailable: 503,
		KindInternal:            500,
		Kind("SOMETHING_ELSE"):  500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), kind)
	}
}

package securetoken

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	tests := []struct {
		err     *Error
		matches []error
		misses  []error
	}{
		{illegalArgument("op", "bad %s", "input"), []error{ErrIllegalArgument}, []error{ErrToken, ErrTokenInvalid, ErrTokenExpired}},
		{tokenError("op", errors.New("cause")), []error{ErrToken}, []error{ErrIllegalArgument, ErrTokenInvalid, ErrTokenExpired}},
		{invalid("op"), []error{ErrToken, ErrTokenInvalid}, []error{ErrIllegalArgument, ErrTokenExpired}},
		{expired("op"), []error{ErrToken, ErrTokenExpired}, []error{ErrIllegalArgument, ErrTokenInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)

			for _, target := range tt.matches {
				assert.ErrorIs(t, wrapped, target)
			}

			for _, target := range tt.misses {
				assert.NotErrorIs(t, wrapped, target)
			}

			assert.Equal(t, tt.err.Kind, KindOf(wrapped))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "securetoken: illegal argument: bad input", illegalArgument("op", "bad %s", "input").Error())
	assert.Equal(t, "securetoken: token error: cause", tokenError("op", errors.New("cause")).Error())
	assert.Equal(t, "securetoken: invalid token", invalid("op").Error())
	assert.Equal(t, "securetoken: token expired", expired("op").Error())

	cause := errors.New("cause")
	assert.ErrorIs(t, tokenError("op", cause), cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("foreign")))
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestWithOp(t *testing.T) {
	original := expired("validate")
	relabeled := withOp("verify", original)

	var e *Error
	assert.ErrorAs(t, relabeled, &e)
	assert.Equal(t, "verify", e.Op)
	assert.Equal(t, KindExpired, e.Kind)
	assert.Equal(t, "validate", original.Op, "the original is not modified")

	foreign := errors.New("foreign")
	assert.Same(t, foreign, withOp("verify", foreign))
}

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	withCause := Wrap(ErrKindDatabase, "query failed", errors.New("boom"))
	assert.Equal(t, `[database_error] query failed: boom`, withCause.Error())

	noCause := New(ErrKindNotConnected, "no active database connection")
	assert.Equal(t, `[not_connected] no active database connection`, noCause.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(ErrKindConnectionFailed, "connect failed", cause)

	require.True(t, errors.Is(err, cause))

	// Wrapping with fmt keeps the chain traversable.
	outer := fmt.Errorf("handler: %w", err)
	assert.True(t, IsConnectionFailed(outer))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		pred func(error) bool
	}{
		{ErrKindValidation, IsValidation},
		{ErrKindInvalidIdentifier, IsInvalidIdentifier},
		{ErrKindNotConnected, IsNotConnected},
		{ErrKindConnectionFailed, IsConnectionFailed},
		{ErrKindConstraintExists, IsConstraintExists},
		{ErrKindAlreadyExists, IsAlreadyExists},
		{ErrKindNotFound, IsNotFound},
		{ErrKindTimeout, IsTimeout},
		{ErrKindDatabase, IsDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := New(tt.kind, "x")
			assert.True(t, tt.pred(err))
			assert.False(t, tt.pred(New(ErrKindUnknown, "x")))
		})
	}
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
}

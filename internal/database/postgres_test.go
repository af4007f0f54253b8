package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/pgscope/pgscope/internal/errs"
)

func TestMapErrorSQLStates(t *testing.T) {
	tests := []struct {
		name string
		code string
		kind errs.ErrKind
	}{
		{"invalid authorization", "28000", errs.ErrKindConnectionFailed},
		{"invalid password", "28P01", errs.ErrKindConnectionFailed},
		{"unknown database", "3D000", errs.ErrKindConnectionFailed},
		{"duplicate object", "42710", errs.ErrKindConstraintExists},
		{"duplicate table", "42P07", errs.ErrKindAlreadyExists},
		{"query canceled", "57014", errs.ErrKindTimeout},
		{"connection failure", "08006", errs.ErrKindConnectionFailed},
		{"connection does not exist", "08003", errs.ErrKindConnectionFailed},
		{"undefined table", "42P01", errs.ErrKindDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(&pgconn.PgError{Code: tt.code, Message: tt.name})
			assert.Equal(t, tt.kind, errs.KindOf(err))
		})
	}
}

func TestMapErrorSentinels(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.True(t, errs.IsTimeout(mapError(context.DeadlineExceeded)))
	assert.True(t, errs.IsTimeout(mapError(context.Canceled)))
	assert.True(t, errs.IsNotFound(mapError(pgx.ErrNoRows)))
	assert.True(t, errs.IsDatabase(mapError(errors.New("broken pipe"))))
}

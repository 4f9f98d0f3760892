package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/mma_daily_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr(pgx.ErrNoRows, "failed to find owner")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrPersistence)

	cause := errors.New("connection reset")
	err = notFoundOr(cause, "failed to find owner")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to find owner")

	var appErr *apperrors.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, 500, appErr.Code)
	}
}

package dao

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAllocationConflict(t *testing.T) {
	t.Run("losing the single-pending race is a single-flight violation", func(t *testing.T) {
		err := allocationConflict(&pgconn.PgError{
			Code:    pgerrcode.UniqueViolation,
			Message: `duplicate key value violates unique constraint "idx_assignments_single_pending_draw"`,
		})
		assert.ErrorIs(t, err, ErrPendingAssignmentExists)
	})

	t.Run("losing a live-booth race is a double placement", func(t *testing.T) {
		err := allocationConflict(&pgconn.PgError{
			Code:    pgerrcode.UniqueViolation,
			Message: `duplicate key value violates unique constraint "idx_assignments_live_booth"`,
		})
		assert.ErrorIs(t, err, ErrAlreadyAssigned)
	})

	t.Run("losing a live-store race is a double placement", func(t *testing.T) {
		err := allocationConflict(&pgconn.PgError{
			Code:    pgerrcode.UniqueViolation,
			Message: `duplicate key value violates unique constraint "idx_assignments_live_store"`,
		})
		assert.ErrorIs(t, err, ErrAlreadyAssigned)
	})
}

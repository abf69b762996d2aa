package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasetfair/booth-api/internal/domain"
)

func TestAssignmentService_AssignFromDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("binds the lowest-order booth and claims its zone", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "F", 1, 2, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit)

		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, imported[0].ID, assignment.BoothID)
		assert.Equal(t, store.ID, assignment.StoreID)
		assert.Equal(t, domain.AssignmentPending, assignment.Status)
		assert.Equal(t, 1, assignment.DrawOrder)

		booths, err := env.booths.ListBooths(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.ZoneFood, booths[0].Zone, "zone claim is permanent")
		assert.True(t, booths[0].IsAssigned)
	})

	t.Run("second pending draw is blocked system-wide", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 2, 1)
		require.NoError(t, err)

		first := env.seedStore(t, "first", domain.GoodsTypeFood, domain.StoreTypeNisit)
		second := env.seedStore(t, "second", domain.GoodsTypeFood, domain.StoreTypeNisit)

		_, err = env.assignments.AssignFromDraw(ctx, first)
		require.NoError(t, err)

		_, err = env.assignments.AssignFromDraw(ctx, second)
		assert.ErrorIs(t, err, ErrPendingAssignmentExists)
	})

	t.Run("draw orders are sequential across confirmations", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 3, 1)
		require.NoError(t, err)

		stores := []domain.Store{
			env.seedStore(t, "one", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001"),
			env.seedStore(t, "two", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400002"),
		}

		a1, err := env.assignments.AssignFromDraw(ctx, stores[0])
		require.NoError(t, err)
		_, err = env.assignments.Confirm(ctx, a1.ID, "6110400001")
		require.NoError(t, err)

		a2, err := env.assignments.AssignFromDraw(ctx, stores[1])
		require.NoError(t, err)
		assert.Equal(t, 1, a1.DrawOrder)
		assert.Equal(t, 2, a2.DrawOrder)
	})

	t.Run("no booth leaves the draw standing", func(t *testing.T) {
		env := newTestEnv(t)

		store := env.seedStore(t, "unlucky", domain.GoodsTypeFood, domain.StoreTypeNisit)

		_, err := env.assignments.AssignFromDraw(ctx, store)
		assert.ErrorIs(t, err, ErrNoBoothAvailable)

		// The store is still eligible for a manual placement once booths
		// exist; nothing pending blocks it.
		_, err = env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)
		assignment, err := env.assignments.AssignManually(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ManualDrawOrder, assignment.DrawOrder)
	})
}

func TestAssignmentService_AssignManually(t *testing.T) {
	ctx := context.Background()

	t.Run("bypasses the single-flight lottery lock", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "M", 1, 3, 1)
		require.NoError(t, err)

		drawn := env.seedStore(t, "drawn", domain.GoodsTypeFood, domain.StoreTypeNisit)
		walkIn := env.seedStore(t, "walk-in", domain.GoodsTypeNonFood, domain.StoreTypeClub)

		_, err = env.assignments.AssignFromDraw(ctx, drawn)
		require.NoError(t, err)

		// A lottery draw is pending, yet the manual path proceeds.
		assignment, err := env.assignments.AssignManually(ctx, walkIn.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentPending, assignment.Status)
		assert.True(t, assignment.IsManual())
	})

	t.Run("a store cannot hold two live assignments", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "M", 1, 2, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "greedy", domain.GoodsTypeFood, domain.StoreTypeNisit)

		_, err = env.assignments.AssignManually(ctx, store.ID)
		require.NoError(t, err)

		_, err = env.assignments.AssignManually(ctx, store.ID)
		assert.ErrorIs(t, err, ErrAlreadyAssigned)
	})

	t.Run("unknown store", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.assignments.AssignManually(ctx, 42)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestAssignmentService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credential confirms and stamps the verifier", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 2, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		confirmed, err := env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentConfirmed, confirmed.Status)
		require.NotNil(t, confirmed.VerifiedByNisitID)
		assert.Equal(t, "6110400001", *confirmed.VerifiedByNisitID)
		assert.NotNil(t, confirmed.VerifiedAt)

		// The confirmed booth stays bound; the next food store gets F2.
		next := env.seedStore(t, "grill", domain.GoodsTypeFood, domain.StoreTypeNisit)
		nextAssignment, err := env.assignments.AssignFromDraw(ctx, next)
		require.NoError(t, err)
		assert.NotEqual(t, assignment.BoothID, nextAssignment.BoothID)
	})

	t.Run("foreign credential is rejected and stays retriable", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "mine", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
		env.seedStore(t, "theirs", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110499999")

		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "6110499999")
		assert.ErrorIs(t, err, ErrIdentityMismatch)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "0000000000")
		assert.ErrorIs(t, err, ErrIdentityMismatch, "unknown credential reads as mismatch")

		confirmed, err := env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentConfirmed, confirmed.Status)
	})

	t.Run("confirming twice is an invalid transition", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		require.NoError(t, err)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.assignments.Confirm(ctx, 42, "6110400001")
		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})
}

func TestAssignmentService_Forfeit(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the booth at its original priority", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "F", 1, 2, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit)
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, imported[0].ID, assignment.BoothID)

		forfeited, err := env.assignments.Forfeit(ctx, assignment.ID, "no-show")
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentForfeited, forfeited.Status)
		assert.Equal(t, "no-show", forfeited.ForfeitReason)

		// The forfeited booth is not penalized: lowest order wins again.
		booth, err := env.booths.NextAvailableBooth(ctx, domain.ZoneFood)
		require.NoError(t, err)
		assert.Equal(t, imported[0].ID, booth.ID)

		// And the store may be drawn again.
		next, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, imported[0].ID, next.BoothID)
		assert.Equal(t, 2, next.DrawOrder)
	})

	t.Run("confirmed assignments cannot be forfeited", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		require.NoError(t, err)

		_, err = env.assignments.Forfeit(ctx, assignment.ID, "oops")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// The rejected forfeit must not touch the confirmed row.
		got, err := env.assignments.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentConfirmed, got.Status)
		require.NotNil(t, got.VerifiedByNisitID)
		assert.Equal(t, "6110400001", *got.VerifiedByNisitID)
		assert.Empty(t, got.ForfeitReason)
	})

	t.Run("forfeited assignments cannot be confirmed", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		_, err = env.assignments.Forfeit(ctx, assignment.ID, "no-show")
		require.NoError(t, err)

		_, err = env.assignments.Confirm(ctx, assignment.ID, "6110400001")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		got, err := env.assignments.GetAssignment(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AssignmentForfeited, got.Status)
		assert.Equal(t, "no-show", got.ForfeitReason)
		assert.Nil(t, got.VerifiedByNisitID)
	})

	t.Run("forfeiting twice is an invalid transition", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit)
		assignment, err := env.assignments.AssignFromDraw(ctx, store)
		require.NoError(t, err)

		_, err = env.assignments.Forfeit(ctx, assignment.ID, "no-show")
		require.NoError(t, err)

		_, err = env.assignments.Forfeit(ctx, assignment.ID, "again")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestAssignmentService_ListAssignments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.booths.ImportRange(ctx, "M", 1, 2, 1)
	require.NoError(t, err)

	first := env.seedStore(t, "first", domain.GoodsTypeFood, domain.StoreTypeNisit)
	second := env.seedStore(t, "second", domain.GoodsTypeNonFood, domain.StoreTypeClub)

	_, err = env.assignments.AssignManually(ctx, first.ID)
	require.NoError(t, err)
	_, err = env.assignments.AssignManually(ctx, second.ID)
	require.NoError(t, err)

	assignments, err := env.assignments.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, second.ID, assignments[0].StoreID, "newest first")
}

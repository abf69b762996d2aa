package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasetfair/booth-api/internal/domain"
)

func TestBoothService_ImportRange(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers and priorities are sequential", func(t *testing.T) {
		env := newTestEnv(t)

		booths, err := env.booths.ImportRange(ctx, "M", 1, 5, 10)
		require.NoError(t, err)
		require.Len(t, booths, 5)

		for i, b := range booths {
			assert.Equal(t, "M"+string(rune('1'+i)), b.BoothNumber)
			assert.Equal(t, 10+i, b.AssignOrder)
			assert.Equal(t, domain.ZoneUndefined, b.Zone)
			assert.True(t, b.IsActive)
		}

		// All booths are still unclaimed, so a NON_FOOD view is empty.
		nonFood := domain.ZoneNonFood
		filtered, err := env.booths.ListBooths(ctx, &nonFood)
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})

	t.Run("duplicate number rejects the whole import", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "A", 1, 3, 1)
		require.NoError(t, err)

		_, err = env.booths.ImportRange(ctx, "A", 3, 6, 100)
		assert.ErrorIs(t, err, ErrDuplicateBoothNumber)

		booths, err := env.booths.ListBooths(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, booths, 3, "nothing from the failed import may exist")
	})

	t.Run("priorities are never reused across imports", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "A", 1, 3, 5)
		require.NoError(t, err)

		// Requested start 1 collides with issued orders 5..7; it gets
		// bumped past them.
		booths, err := env.booths.ImportRange(ctx, "B", 1, 2, 1)
		require.NoError(t, err)
		require.Len(t, booths, 2)
		assert.Equal(t, 8, booths[0].AssignOrder)
		assert.Equal(t, 9, booths[1].AssignOrder)
	})

	t.Run("invalid range", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.ImportRange(ctx, "A", 5, 1, 1)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestBoothService_Reorder(t *testing.T) {
	ctx := context.Background()

	boothIDs := func(booths []domain.Booth) []uint {
		ids := make([]uint, len(booths))
		for i, b := range booths {
			ids[i] = b.ID
		}
		return ids
	}

	t.Run("move single renumbers densely", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 4, 10)
		require.NoError(t, err)

		updated, err := env.booths.Reorder(ctx, ReorderOp{
			Kind:        ReorderMoveSingle,
			BoothID:     imported[3].ID, // M4
			TargetIndex: 0,
		})
		require.NoError(t, err)

		require.Len(t, updated, 4)
		assert.Equal(t, "M4", updated[0].BoothNumber)
		assert.Equal(t, "M1", updated[1].BoothNumber)
		for i, b := range updated {
			assert.Equal(t, i+1, b.AssignOrder, "orders must be dense from 1")
		}
	})

	t.Run("move then move back restores order", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 5, 1)
		require.NoError(t, err)
		original := boothIDs(imported)

		moved, err := env.booths.Reorder(ctx, ReorderOp{
			Kind: ReorderMoveSingle, BoothID: imported[1].ID, TargetIndex: 4,
		})
		require.NoError(t, err)
		assert.NotEqual(t, original, boothIDs(moved))

		restored, err := env.booths.Reorder(ctx, ReorderOp{
			Kind: ReorderMoveSingle, BoothID: imported[1].ID, TargetIndex: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, original, boothIDs(restored))
	})

	t.Run("reverse selection is an involution", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 5, 1)
		require.NoError(t, err)
		original := boothIDs(imported)
		selection := []uint{imported[0].ID, imported[2].ID, imported[4].ID}

		once, err := env.booths.Reorder(ctx, ReorderOp{Kind: ReorderReverse, BoothIDs: selection})
		require.NoError(t, err)
		assert.NotEqual(t, original, boothIDs(once))

		twice, err := env.booths.Reorder(ctx, ReorderOp{Kind: ReorderReverse, BoothIDs: selection})
		require.NoError(t, err)
		assert.Equal(t, original, boothIDs(twice))
	})

	t.Run("reverse requires two booths", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 3, 1)
		require.NoError(t, err)

		_, err = env.booths.Reorder(ctx, ReorderOp{
			Kind: ReorderReverse, BoothIDs: []uint{imported[0].ID},
		})
		assert.ErrorIs(t, err, ErrSelectionTooSmall)
	})

	t.Run("zone filter preserves unfiltered booths", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 4, 1)
		require.NoError(t, err)

		// Claim M1 into FOOD via assignment, forfeiting to free it again
		// so only the zone sticks.
		s1 := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit)
		a1, err := env.assignments.AssignManually(ctx, s1.ID)
		require.NoError(t, err)
		_, err = env.assignments.Forfeit(ctx, a1.ID, "test reset")
		require.NoError(t, err)

		// Reorder within the FOOD view: only M1 is FOOD, so the view has
		// one booth and dragging it onto itself changes nothing overall.
		food := domain.ZoneFood
		updated, err := env.booths.Reorder(ctx, ReorderOp{
			Kind:        ReorderDrag,
			Zone:        &food,
			BoothID:     imported[0].ID,
			OverBoothID: imported[0].ID,
		})
		require.NoError(t, err)
		assert.Equal(t, boothIDs(imported), boothIDs(updated))
		for i, b := range updated {
			assert.Equal(t, i+1, b.AssignOrder)
		}
	})
}

func TestBoothService_DisableEnable(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled booths leave allocation but keep their slot", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "F", 1, 2, 1)
		require.NoError(t, err)

		require.NoError(t, env.booths.Disable(ctx, []uint{imported[0].ID}))

		store := env.seedStore(t, "grill", domain.GoodsTypeFood, domain.StoreTypeNisit)
		assignment, err := env.assignments.AssignManually(ctx, store.ID)
		require.NoError(t, err)
		assert.Equal(t, imported[1].ID, assignment.BoothID, "disabled booth must be skipped")

		require.NoError(t, env.booths.Enable(ctx, []uint{imported[0].ID}))
		booths, err := env.booths.ListBooths(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, booths[0].AssignOrder, "slot is retained while disabled")
	})

	t.Run("disabling an assigned booth is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "F", 1, 1, 1)
		require.NoError(t, err)

		store := env.seedStore(t, "grill", domain.GoodsTypeFood, domain.StoreTypeNisit)
		_, err = env.assignments.AssignManually(ctx, store.ID)
		require.NoError(t, err)

		err = env.booths.Disable(ctx, []uint{imported[0].ID})
		assert.ErrorIs(t, err, ErrBoothInUse)

		booths, err := env.booths.ListBooths(ctx, nil)
		require.NoError(t, err)
		assert.True(t, booths[0].IsActive, "no state change on rejection")
	})
}

func TestBoothService_NextAvailableBooth(t *testing.T) {
	ctx := context.Background()

	t.Run("lowest order wins and undefined is claimable", func(t *testing.T) {
		env := newTestEnv(t)

		imported, err := env.booths.ImportRange(ctx, "M", 1, 3, 1)
		require.NoError(t, err)

		booth, err := env.booths.NextAvailableBooth(ctx, domain.ZoneNonFood)
		require.NoError(t, err)
		assert.Equal(t, imported[0].ID, booth.ID)
	})

	t.Run("invalid zone", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.NextAvailableBooth(ctx, domain.ZoneUndefined)
		assert.ErrorIs(t, err, ErrInvalidZone)
	})

	t.Run("exhausted zone", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.booths.NextAvailableBooth(ctx, domain.ZoneFood)
		assert.ErrorIs(t, err, ErrNoBoothAvailable)
	})
}

func TestBoothService_ZoneStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.booths.ImportRange(ctx, "M", 1, 3, 1)
	require.NoError(t, err)

	store := env.seedStore(t, "soup", domain.GoodsTypeFood, domain.StoreTypeNisit, "6110400001")
	assignment, err := env.assignments.AssignManually(ctx, store.ID)
	require.NoError(t, err)
	_, err = env.assignments.Confirm(ctx, assignment.ID, "6110400001")
	require.NoError(t, err)

	stats, err := env.booths.ZoneStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	byZone := map[domain.Zone]domain.ZoneStats{}
	for _, s := range stats {
		byZone[s.Zone] = s
	}

	assert.Equal(t, 1, byZone[domain.ZoneFood].Total)
	assert.Equal(t, 1, byZone[domain.ZoneFood].Confirmed)
	assert.Equal(t, 0, byZone[domain.ZoneFood].Available)
	assert.Equal(t, 2, byZone[domain.ZoneUndefined].Total)
	assert.Equal(t, 2, byZone[domain.ZoneUndefined].Available)
	assert.Equal(t, 0, byZone[domain.ZoneNonFood].Total)
}

package domain

import "errors"

var (
	ErrBoothNotInView    = errors.New("booth is not part of the visible ordering")
	ErrTargetOutOfRange  = errors.New("target index is out of range")
	ErrSelectionTooSmall = errors.New("selection must contain at least two booths")
)

// The four ordering operations work on the id sequence of the currently
// visible (e.g. zone-filtered) booths, sorted by assign order. Each returns a
// new sequence of the same ids; callers merge the result back into the full
// registry and renumber. None of them mutate their input.

// MoveSingle moves id so that it ends up at index target.
func MoveSingle(visible []uint, id uint, target int) ([]uint, error) {
	if target < 0 || target >= len(visible) {
		return nil, ErrTargetOutOfRange
	}

	from := indexOf(visible, id)
	if from < 0 {
		return nil, ErrBoothNotInView
	}

	out := make([]uint, 0, len(visible))
	out = append(out, visible[:from]...)
	out = append(out, visible[from+1:]...)

	return insertAt(out, target, id), nil
}

// MoveMultiple moves ids, keeping their current relative order, so that the
// block starts where target pointed before the move. The insertion index is
// reduced by the number of moved items that originally preceded target, so
// removing them does not shift the apparent destination.
func MoveMultiple(visible []uint, ids []uint, target int) ([]uint, error) {
	if target < 0 || target >= len(visible) {
		return nil, ErrTargetOutOfRange
	}

	selected, err := selectionSet(visible, ids)
	if err != nil {
		return nil, err
	}

	var (
		moved     []uint
		remaining []uint
		adjusted  = target
	)
	for i, id := range visible {
		if selected[id] {
			moved = append(moved, id)
			if i < target {
				adjusted--
			}
		} else {
			remaining = append(remaining, id)
		}
	}

	if adjusted > len(remaining) {
		adjusted = len(remaining)
	}

	out := make([]uint, 0, len(visible))
	out = append(out, remaining[:adjusted]...)
	out = append(out, moved...)
	out = append(out, remaining[adjusted:]...)

	return out, nil
}

// ReverseSelection reverses the positions of the selected booths in place;
// unselected booths keep their slots. Requires at least two selected ids.
func ReverseSelection(visible []uint, ids []uint) ([]uint, error) {
	selected, err := selectionSet(visible, ids)
	if err != nil {
		return nil, err
	}
	if len(selected) < 2 {
		return nil, ErrSelectionTooSmall
	}

	var positions []int
	for i, id := range visible {
		if selected[id] {
			positions = append(positions, i)
		}
	}

	out := make([]uint, len(visible))
	copy(out, visible)
	for i, j := 0, len(positions)-1; i < j; i, j = i+1, j-1 {
		out[positions[i]], out[positions[j]] = out[positions[j]], out[positions[i]]
	}

	return out, nil
}

// DragReorder moves id to the slot currently occupied by overID, shifting the
// booths in between by one. Dragging a booth onto itself is a no-op.
func DragReorder(visible []uint, id, overID uint) ([]uint, error) {
	from := indexOf(visible, id)
	to := indexOf(visible, overID)
	if from < 0 || to < 0 {
		return nil, ErrBoothNotInView
	}

	out := make([]uint, 0, len(visible))
	out = append(out, visible[:from]...)
	out = append(out, visible[from+1:]...)

	return insertAt(out, to, id), nil
}

func selectionSet(visible []uint, ids []uint) (map[uint]bool, error) {
	inView := make(map[uint]bool, len(visible))
	for _, id := range visible {
		inView[id] = true
	}

	selected := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !inView[id] {
			return nil, ErrBoothNotInView
		}
		selected[id] = true
	}

	return selected, nil
}

func indexOf(ids []uint, id uint) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}

	return -1
}

func insertAt(ids []uint, i int, id uint) []uint {
	if i > len(ids) {
		i = len(ids)
	}

	out := make([]uint, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	out = append(out, ids[i:]...)

	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository"
)

var (
	ErrBoothNotFound        = repository.ErrBoothNotFound
	ErrDuplicateBoothNumber = repository.ErrDuplicateBoothNumber
	ErrBoothInUse           = repository.ErrBoothInUse
	ErrNoBoothAvailable     = repository.ErrNoBoothAvailable
	ErrInvalidZone          = errors.New("invalid zone")
	ErrInvalidRange         = errors.New("invalid booth number range")
	ErrBoothNotInView       = domain.ErrBoothNotInView
	ErrTargetOutOfRange     = domain.ErrTargetOutOfRange
	ErrSelectionTooSmall    = domain.ErrSelectionTooSmall
)

type BoothRepository interface {
	ImportRange(ctx context.Context, numbers []string, orderStart int) ([]domain.Booth, error)
	ListActive(ctx context.Context) ([]domain.Booth, error)
	MaxAssignOrder(ctx context.Context) (int, error)
	NextAvailable(ctx context.Context, zone domain.Zone) (domain.Booth, error)
	UpdateOrders(ctx context.Context, orders map[uint]int) error
	SetActive(ctx context.Context, ids []uint, active bool) error
	ZoneStats(ctx context.Context) ([]domain.ZoneStats, error)
}

type ReorderKind string

const (
	ReorderMoveSingle   ReorderKind = "MOVE_SINGLE"
	ReorderMoveMultiple ReorderKind = "MOVE_MULTIPLE"
	ReorderReverse      ReorderKind = "REVERSE_SELECTION"
	ReorderDrag         ReorderKind = "DRAG"
)

// ReorderOp is one edit of the priority ordering, expressed against the
// booths visible under Zone (nil = the whole active registry). Which fields
// apply depends on Kind.
type ReorderOp struct {
	Kind        ReorderKind
	Zone        *domain.Zone
	BoothID     uint
	BoothIDs    []uint
	TargetIndex int
	OverBoothID uint
}

// BoothService is the booth registry and priority manager. The mutex
// serializes the read-modify-write reorder cycle and import numbering against
// each other; persistence-side transactions keep each write atomic.
type BoothService struct {
	mu   sync.Mutex
	repo BoothRepository
}

func NewBoothService(repo BoothRepository) *BoothService {
	return &BoothService{
		repo: repo,
	}
}

// ImportRange creates booths prefix+start .. prefix+end with sequential
// priorities. The requested starting priority is bumped past the highest
// order ever issued, so priorities are never reused across imports.
func (s *BoothService) ImportRange(ctx context.Context, prefix string, start, end, priorityStart int) ([]domain.Booth, error) {
	if end < start || start < 0 || priorityStart < 1 {
		return nil, ErrInvalidRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxOrder, err := s.repo.MaxAssignOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.MaxAssignOrder -> %w", err)
	}
	if priorityStart <= maxOrder {
		priorityStart = maxOrder + 1
	}

	numbers := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		numbers = append(numbers, prefix+strconv.Itoa(n))
	}

	booths, err := s.repo.ImportRange(ctx, numbers, priorityStart)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ImportRange -> %w", err)
	}

	return booths, nil
}

// ListBooths returns the active registry in priority order, optionally
// restricted to one zone.
func (s *BoothService) ListBooths(ctx context.Context, zone *domain.Zone) ([]domain.Booth, error) {
	booths, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActive -> %w", err)
	}

	if zone == nil {
		return booths, nil
	}

	filtered := make([]domain.Booth, 0, len(booths))
	for _, b := range booths {
		if b.Zone == *zone {
			filtered = append(filtered, b)
		}
	}

	return filtered, nil
}

// Reorder applies one ordering operation to the visible subset, keeps the
// relative order of every booth outside the filter, and rewrites assign
// orders as a dense 1..N sequence over the whole active registry.
func (s *BoothService) Reorder(ctx context.Context, op ReorderOp) ([]domain.Booth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booths, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActive -> %w", err)
	}

	full := make([]uint, len(booths))
	visibleAt := make([]int, 0, len(booths))
	visible := make([]uint, 0, len(booths))
	for i, b := range booths {
		full[i] = b.ID
		if op.Zone == nil || b.Zone == *op.Zone {
			visibleAt = append(visibleAt, i)
			visible = append(visible, b.ID)
		}
	}

	var reordered []uint
	switch op.Kind {
	case ReorderMoveSingle:
		reordered, err = domain.MoveSingle(visible, op.BoothID, op.TargetIndex)
	case ReorderMoveMultiple:
		reordered, err = domain.MoveMultiple(visible, op.BoothIDs, op.TargetIndex)
	case ReorderReverse:
		reordered, err = domain.ReverseSelection(visible, op.BoothIDs)
	case ReorderDrag:
		reordered, err = domain.DragReorder(visible, op.BoothID, op.OverBoothID)
	default:
		return nil, fmt.Errorf("unknown reorder kind %q", op.Kind)
	}
	if err != nil {
		return nil, err
	}

	// Splice the reordered view back into the slots it occupied; everything
	// outside the filter keeps its position.
	for i, pos := range visibleAt {
		full[pos] = reordered[i]
	}

	orders := make(map[uint]int, len(full))
	for i, id := range full {
		orders[id] = i + 1
	}

	if err = s.repo.UpdateOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("s.repo.UpdateOrders -> %w", err)
	}

	updated, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActive -> %w", err)
	}

	return updated, nil
}

// NextAvailableBooth is the read-only preview of the booth the engine would
// bind next for the zone.
func (s *BoothService) NextAvailableBooth(ctx context.Context, zone domain.Zone) (domain.Booth, error) {
	if zone != domain.ZoneFood && zone != domain.ZoneNonFood {
		return domain.Booth{}, ErrInvalidZone
	}

	booth, err := s.repo.NextAvailable(ctx, zone)
	if err != nil {
		return domain.Booth{}, fmt.Errorf("s.repo.NextAvailable -> %w", err)
	}

	return booth, nil
}

func (s *BoothService) Disable(ctx context.Context, ids []uint) error {
	if err := s.repo.SetActive(ctx, ids, false); err != nil {
		return fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	return nil
}

func (s *BoothService) Enable(ctx context.Context, ids []uint) error {
	if err := s.repo.SetActive(ctx, ids, true); err != nil {
		return fmt.Errorf("s.repo.SetActive -> %w", err)
	}

	return nil
}

func (s *BoothService) ZoneStats(ctx context.Context) ([]domain.ZoneStats, error) {
	stats, err := s.repo.ZoneStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ZoneStats -> %w", err)
	}

	return stats, nil
}

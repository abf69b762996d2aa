package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository"
)

var (
	ErrAssignmentNotFound      = repository.ErrAssignmentNotFound
	ErrPendingAssignmentExists = repository.ErrPendingAssignmentExists
	ErrAlreadyAssigned         = repository.ErrAlreadyAssigned
	ErrInvalidTransition       = repository.ErrInvalidTransition
	ErrStoreNotFound           = repository.ErrStoreNotFound
	ErrIdentityMismatch        = errors.New("credential does not belong to the assigned store")
)

type AssignmentRepository interface {
	Allocate(ctx context.Context, storeID uint, zone domain.Zone, manual bool) (domain.Assignment, error)
	GetByID(ctx context.Context, id uint) (domain.Assignment, error)
	List(ctx context.Context) ([]domain.Assignment, error)
	Confirm(ctx context.Context, id uint, nisitID string, at time.Time) (domain.Assignment, error)
	Forfeit(ctx context.Context, id uint, reason string) (domain.Assignment, error)
}

type AssignmentStoreRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Store, error)
	ResolveMemberByCredential(ctx context.Context, credential string) (domain.StoreMember, error)
}

// AssignmentService is the allocation engine and confirmation state machine.
// The mutex serializes allocations within the process; the partial unique
// indexes hold the same invariants across processes.
type AssignmentService struct {
	mu        sync.Mutex
	repo      AssignmentRepository
	storeRepo AssignmentStoreRepository
}

func NewAssignmentService(repo AssignmentRepository, storeRepo AssignmentStoreRepository) *AssignmentService {
	return &AssignmentService{
		repo:      repo,
		storeRepo: storeRepo,
	}
}

// AssignFromDraw binds a lottery winner to the next available booth of the
// zone its goods type requires, creating a PENDING assignment with the next
// draw-order value. Only one lottery-pending assignment may exist at a time.
// On ErrNoBoothAvailable the draw still stands: the winner is not returned to
// the pool and operators resolve the orphan by importing booths and assigning
// manually.
func (s *AssignmentService) AssignFromDraw(ctx context.Context, store domain.Store) (domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, err := s.repo.Allocate(ctx, store.ID, store.GoodsType.Zone(), false)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.Allocate -> %w", err)
	}

	return assignment, nil
}

// AssignFromDrawByID is the HTTP-facing variant that resolves the winning
// store first.
func (s *AssignmentService) AssignFromDrawByID(ctx context.Context, storeID uint) (domain.Assignment, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.storeRepo.GetByID -> %w", err)
	}

	return s.AssignFromDraw(ctx, store)
}

// AssignManually places a store outside the lottery. It is blocked only by
// the per-store live-assignment rule, not by the global pending singleton:
// the single-flight lock exists for the physical wheel flow, which manual
// placement does not participate in.
func (s *AssignmentService) AssignManually(ctx context.Context, storeID uint) (domain.Assignment, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.storeRepo.GetByID -> %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, err := s.repo.Allocate(ctx, store.ID, store.GoodsType.Zone(), true)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.Allocate -> %w", err)
	}

	return assignment, nil
}

// Confirm validates the scanned credential against the assigned store's
// member roster and finalizes the assignment. A failed check leaves the
// assignment PENDING; the operator scans again.
func (s *AssignmentService) Confirm(ctx context.Context, assignmentID uint, credential string) (domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	member, err := s.storeRepo.ResolveMemberByCredential(ctx, credential)
	if err != nil {
		// An unknown credential reads the same as a wrong one.
		if errors.Is(err, repository.ErrMemberNotFound) {
			return domain.Assignment{}, ErrIdentityMismatch
		}

		return domain.Assignment{}, fmt.Errorf("s.storeRepo.ResolveMemberByCredential -> %w", err)
	}

	if member.StoreID != assignment.StoreID {
		return domain.Assignment{}, ErrIdentityMismatch
	}

	confirmed, err := s.repo.Confirm(ctx, assignmentID, member.NisitID, time.Now())
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.Confirm -> %w", err)
	}

	return confirmed, nil
}

// Forfeit releases a PENDING assignment. The booth keeps its assign order and
// becomes selectable again; the store becomes draw-eligible again. Confirmed
// assignments cannot be forfeited.
func (s *AssignmentService) Forfeit(ctx context.Context, assignmentID uint, reason string) (domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	forfeited, err := s.repo.Forfeit(ctx, assignmentID, reason)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.Forfeit -> %w", err)
	}

	return forfeited, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id uint) (domain.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return assignment, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	assignments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return assignments, nil
}

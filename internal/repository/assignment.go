package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository/dao"
)

var (
	ErrAssignmentNotFound      = dao.ErrAssignmentNotFound
	ErrPendingAssignmentExists = dao.ErrPendingAssignmentExists
	ErrAlreadyAssigned         = dao.ErrAlreadyAssigned
	ErrInvalidTransition       = dao.ErrInvalidTransition
)

type AssignmentDAO interface {
	Allocate(ctx context.Context, storeID uint, zone string, manual bool) (dao.Assignment, error)
	GetByID(ctx context.Context, id uint) (dao.Assignment, error)
	List(ctx context.Context) ([]dao.Assignment, error)
	Confirm(ctx context.Context, id uint, nisitID string, at time.Time) (dao.Assignment, error)
	Forfeit(ctx context.Context, id uint, reason string) (dao.Assignment, error)
	HasLiveByStoreID(ctx context.Context, storeID uint) (bool, error)
}

type AssignmentRepository struct {
	dao AssignmentDAO
}

func NewAssignmentRepository(dao AssignmentDAO) *AssignmentRepository {
	return &AssignmentRepository{
		dao: dao,
	}
}

func (r *AssignmentRepository) daoToDomain(a dao.Assignment) domain.Assignment {
	return domain.Assignment{
		ID:                a.ID,
		BoothID:           a.BoothID,
		StoreID:           a.StoreID,
		DrawOrder:         a.DrawOrder,
		Status:            domain.AssignmentStatus(a.Status),
		VerifiedByNisitID: a.VerifiedByNisitID,
		VerifiedAt:        a.VerifiedAt,
		ForfeitReason:     a.ForfeitReason,
		CreatedAt:         a.CreatedAt,
	}
}

func (r *AssignmentRepository) Allocate(ctx context.Context, storeID uint, zone domain.Zone, manual bool) (domain.Assignment, error) {
	created, err := r.dao.Allocate(ctx, storeID, string(zone), manual)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("r.dao.Allocate -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uint) (domain.Assignment, error) {
	assignment, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(assignment), nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]domain.Assignment, error) {
	daoAssignments, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	assignments := make([]domain.Assignment, len(daoAssignments))
	for i, a := range daoAssignments {
		assignments[i] = r.daoToDomain(a)
	}

	return assignments, nil
}

func (r *AssignmentRepository) Confirm(ctx context.Context, id uint, nisitID string, at time.Time) (domain.Assignment, error) {
	confirmed, err := r.dao.Confirm(ctx, id, nisitID, at)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("r.dao.Confirm -> %w", err)
	}

	return r.daoToDomain(confirmed), nil
}

func (r *AssignmentRepository) Forfeit(ctx context.Context, id uint, reason string) (domain.Assignment, error) {
	forfeited, err := r.dao.Forfeit(ctx, id, reason)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("r.dao.Forfeit -> %w", err)
	}

	return r.daoToDomain(forfeited), nil
}

func (r *AssignmentRepository) HasLiveByStoreID(ctx context.Context, storeID uint) (bool, error) {
	has, err := r.dao.HasLiveByStoreID(ctx, storeID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasLiveByStoreID -> %w", err)
	}

	return has, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository/dao"
)

var (
	ErrBoothNotFound        = dao.ErrBoothNotFound
	ErrDuplicateBoothNumber = dao.ErrDuplicateBoothNumber
	ErrBoothInUse           = dao.ErrBoothInUse
	ErrNoBoothAvailable     = dao.ErrNoBoothAvailable
)

type BoothDAO interface {
	InsertRange(ctx context.Context, numbers []string, orderStart int) ([]dao.Booth, error)
	GetByID(ctx context.Context, id uint) (dao.Booth, error)
	ListActiveOrdered(ctx context.Context) ([]dao.Booth, error)
	MaxAssignOrder(ctx context.Context) (int, error)
	NextAvailable(ctx context.Context, zone string) (dao.Booth, error)
	UpdateOrders(ctx context.Context, orders []dao.BoothOrder) error
	SetActive(ctx context.Context, ids []uint, active bool) error
	LiveAssignedBoothIDs(ctx context.Context) (map[uint]bool, error)
	ZoneCounts(ctx context.Context) (map[string]dao.ZoneCount, error)
}

type BoothRepository struct {
	dao BoothDAO
}

func NewBoothRepository(dao BoothDAO) *BoothRepository {
	return &BoothRepository{
		dao: dao,
	}
}

func (r *BoothRepository) daoToDomain(b dao.Booth, assigned bool) domain.Booth {
	return domain.Booth{
		ID:          b.ID,
		BoothNumber: b.BoothNumber,
		Zone:        domain.Zone(b.Zone),
		AssignOrder: b.AssignOrder,
		IsActive:    b.IsActive,
		IsAssigned:  assigned,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *BoothRepository) ImportRange(ctx context.Context, numbers []string, orderStart int) ([]domain.Booth, error) {
	created, err := r.dao.InsertRange(ctx, numbers, orderStart)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertRange -> %w", err)
	}

	booths := make([]domain.Booth, len(created))
	for i, b := range created {
		booths[i] = r.daoToDomain(b, false)
	}

	return booths, nil
}

// ListActive returns active booths by assign order with IsAssigned derived
// from the live assignments.
func (r *BoothRepository) ListActive(ctx context.Context) ([]domain.Booth, error) {
	daoBooths, err := r.dao.ListActiveOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListActiveOrdered -> %w", err)
	}

	assigned, err := r.dao.LiveAssignedBoothIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LiveAssignedBoothIDs -> %w", err)
	}

	booths := make([]domain.Booth, len(daoBooths))
	for i, b := range daoBooths {
		booths[i] = r.daoToDomain(b, assigned[b.ID])
	}

	return booths, nil
}

func (r *BoothRepository) MaxAssignOrder(ctx context.Context) (int, error) {
	max, err := r.dao.MaxAssignOrder(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.MaxAssignOrder -> %w", err)
	}

	return max, nil
}

func (r *BoothRepository) NextAvailable(ctx context.Context, zone domain.Zone) (domain.Booth, error) {
	booth, err := r.dao.NextAvailable(ctx, string(zone))
	if err != nil {
		return domain.Booth{}, fmt.Errorf("r.dao.NextAvailable -> %w", err)
	}

	return r.daoToDomain(booth, false), nil
}

func (r *BoothRepository) UpdateOrders(ctx context.Context, orders map[uint]int) error {
	daoOrders := make([]dao.BoothOrder, 0, len(orders))
	for id, order := range orders {
		daoOrders = append(daoOrders, dao.BoothOrder{ID: id, AssignOrder: order})
	}

	if err := r.dao.UpdateOrders(ctx, daoOrders); err != nil {
		return fmt.Errorf("r.dao.UpdateOrders -> %w", err)
	}

	return nil
}

func (r *BoothRepository) SetActive(ctx context.Context, ids []uint, active bool) error {
	if err := r.dao.SetActive(ctx, ids, active); err != nil {
		return fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return nil
}

func (r *BoothRepository) ZoneStats(ctx context.Context) ([]domain.ZoneStats, error) {
	counts, err := r.dao.ZoneCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ZoneCounts -> %w", err)
	}

	// Stable zone order for dashboards.
	zones := []domain.Zone{domain.ZoneFood, domain.ZoneNonFood, domain.ZoneUndefined}
	stats := make([]domain.ZoneStats, 0, len(zones))
	for _, z := range zones {
		c := counts[string(z)]
		stats = append(stats, domain.ZoneStats{
			Zone:      z,
			Total:     c.Total,
			Confirmed: c.Confirmed,
			Available: c.Available,
		})
	}

	return stats, nil
}

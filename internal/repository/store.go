package repository

import (
	"context"
	"fmt"

	"github.com/kasetfair/booth-api/internal/domain"
	"github.com/kasetfair/booth-api/internal/repository/dao"
)

var (
	ErrStoreNotFound  = dao.ErrStoreNotFound
	ErrMemberNotFound = dao.ErrMemberNotFound
	ErrMemberExists   = dao.ErrMemberExists
)

type StoreDAO interface {
	Insert(ctx context.Context, store dao.Store) (dao.Store, error)
	InsertMember(ctx context.Context, member dao.StoreMember) (dao.StoreMember, error)
	GetByID(ctx context.Context, id uint) (dao.Store, error)
	FindEligible(ctx context.Context, storeType *string) ([]dao.Store, error)
	ResolveMemberByCredential(ctx context.Context, credential string) (dao.StoreMember, error)
}

type StoreRepository struct {
	dao StoreDAO
}

func NewStoreRepository(dao StoreDAO) *StoreRepository {
	return &StoreRepository{
		dao: dao,
	}
}

func (r *StoreRepository) daoToDomain(s dao.Store) domain.Store {
	return domain.Store{
		ID:        s.ID,
		Name:      s.Name,
		GoodsType: domain.GoodsType(s.GoodsType),
		State:     domain.StoreState(s.State),
		Type:      domain.StoreType(s.Type),
	}
}

func (r *StoreRepository) Create(ctx context.Context, store domain.Store) (domain.Store, error) {
	created, err := r.dao.Insert(ctx, dao.Store{
		Name:      store.Name,
		GoodsType: string(store.GoodsType),
		State:     string(store.State),
		Type:      string(store.Type),
	})
	if err != nil {
		return domain.Store{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StoreRepository) AddMember(ctx context.Context, member domain.StoreMember) (domain.StoreMember, error) {
	created, err := r.dao.InsertMember(ctx, dao.StoreMember{
		StoreID: member.StoreID,
		NisitID: member.NisitID,
		Name:    member.Name,
	})
	if err != nil {
		return domain.StoreMember{}, fmt.Errorf("r.dao.InsertMember -> %w", err)
	}

	return domain.StoreMember{
		ID:      created.ID,
		StoreID: created.StoreID,
		NisitID: created.NisitID,
		Name:    created.Name,
	}, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id uint) (domain.Store, error) {
	store, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Store{}, fmt.Errorf("r.dao.GetByID -> %w", err)
	}

	return r.daoToDomain(store), nil
}

// FindEligible returns the validated stores without a live assignment,
// optionally filtered by store type. The lottery pool is loaded from here.
func (r *StoreRepository) FindEligible(ctx context.Context, storeType *domain.StoreType) ([]domain.Store, error) {
	var filter *string
	if storeType != nil {
		s := string(*storeType)
		filter = &s
	}

	daoStores, err := r.dao.FindEligible(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEligible -> %w", err)
	}

	stores := make([]domain.Store, len(daoStores))
	for i, s := range daoStores {
		stores[i] = r.daoToDomain(s)
	}

	return stores, nil
}

func (r *StoreRepository) ResolveMemberByCredential(ctx context.Context, credential string) (domain.StoreMember, error) {
	member, err := r.dao.ResolveMemberByCredential(ctx, credential)
	if err != nil {
		return domain.StoreMember{}, fmt.Errorf("r.dao.ResolveMemberByCredential -> %w", err)
	}

	return domain.StoreMember{
		ID:      member.ID,
		StoreID: member.StoreID,
		NisitID: member.NisitID,
		Name:    member.Name,
	}, nil
}

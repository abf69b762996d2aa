package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound  = errors.New("store not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member credential already registered")
)

type Store struct {
	ID uint `gorm:"primaryKey"`

	Name      string `gorm:"not null"`
	GoodsType string `gorm:"not null"` // "Food" or "NonFood"
	State     string `gorm:"not null"` // "Created", "Validated" or "Rejected"
	Type      string `gorm:"not null"` // "Nisit" or "Club"

	Members []StoreMember `gorm:"foreignKey:StoreID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StoreMember struct {
	ID      uint   `gorm:"primaryKey"`
	StoreID uint   `gorm:"not null;index"`
	NisitID string `gorm:"unique;not null"`
	Name    string `gorm:"not null"`
}

type StoreDAO struct {
	db *gorm.DB
}

func NewStoreDAO(db *gorm.DB) *StoreDAO {
	return &StoreDAO{
		db: db,
	}
}

func (d *StoreDAO) Insert(ctx context.Context, store Store) (Store, error) {
	result := d.db.WithContext(ctx).Create(&store)
	if result.Error != nil {
		return Store{}, result.Error
	}

	return store, nil
}

func (d *StoreDAO) InsertMember(ctx context.Context, member StoreMember) (StoreMember, error) {
	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "nisit_id") {
			return StoreMember{}, ErrMemberExists
		}

		return StoreMember{}, result.Error
	}

	return member, nil
}

func (d *StoreDAO) GetByID(ctx context.Context, id uint) (Store, error) {
	var store Store

	result := d.db.WithContext(ctx).First(&store, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Store{}, ErrStoreNotFound
		}

		return Store{}, result.Error
	}

	return store, nil
}

// FindEligible returns validated stores with no live assignment, optionally
// filtered by store type. This is the authoritative draw-pool query.
func (d *StoreDAO) FindEligible(ctx context.Context, storeType *string) ([]Store, error) {
	var stores []Store

	query := d.db.WithContext(ctx).
		Where("state = ?", "Validated").
		Where("NOT EXISTS (SELECT 1 FROM assignments a WHERE a.store_id = stores.id AND a.status IN ?)",
			[]string{"PENDING", "CONFIRMED"})
	if storeType != nil {
		query = query.Where("type = ?", *storeType)
	}

	result := query.Order("id asc").Find(&stores)
	if result.Error != nil {
		return nil, result.Error
	}

	return stores, nil
}

// ResolveMemberByCredential looks up the roster entry for a scanned nisit
// card / barcode credential.
func (d *StoreDAO) ResolveMemberByCredential(ctx context.Context, credential string) (StoreMember, error) {
	var member StoreMember

	result := d.db.WithContext(ctx).Where("nisit_id = ?", credential).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StoreMember{}, ErrMemberNotFound
		}

		return StoreMember{}, result.Error
	}

	return member, nil
}

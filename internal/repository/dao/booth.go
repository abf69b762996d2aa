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
	ErrBoothNotFound        = errors.New("booth not found")
	ErrDuplicateBoothNumber = errors.New("booth number already exists")
	ErrBoothInUse           = errors.New("booth has a live assignment")
	ErrNoBoothAvailable     = errors.New("no booth available for zone")
)

type Booth struct {
	ID          uint   `gorm:"primaryKey"`
	BoothNumber string `gorm:"unique;not null"`
	Zone        string `gorm:"not null;default:UNDEFINED"`
	AssignOrder int    `gorm:"not null;index"`
	IsActive    bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BoothOrder is one (booth, priority) pair of a reorder write-back.
type BoothOrder struct {
	ID          uint
	AssignOrder int
}

type BoothDAO struct {
	db *gorm.DB
}

func NewBoothDAO(db *gorm.DB) *BoothDAO {
	return &BoothDAO{
		db: db,
	}
}

// InsertRange creates every booth in one transaction with sequential assign
// orders starting at orderStart. Nothing is created if any number collides
// with an existing booth.
func (d *BoothDAO) InsertRange(ctx context.Context, numbers []string, orderStart int) ([]Booth, error) {
	var booths []Booth

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Booth{}).Where("booth_number IN ?", numbers).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateBoothNumber
		}

		booths = make([]Booth, len(numbers))
		for i, number := range numbers {
			booths[i] = Booth{
				BoothNumber: number,
				Zone:        "UNDEFINED",
				AssignOrder: orderStart + i,
				IsActive:    true,
			}
		}

		if err := tx.Create(&booths).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "booth_number") {
				return ErrDuplicateBoothNumber
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return booths, nil
}

func (d *BoothDAO) GetByID(ctx context.Context, id uint) (Booth, error) {
	var booth Booth

	result := d.db.WithContext(ctx).First(&booth, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Booth{}, ErrBoothNotFound
		}

		return Booth{}, result.Error
	}

	return booth, nil
}

// ListActiveOrdered returns every active booth sorted by assign order.
func (d *BoothDAO) ListActiveOrdered(ctx context.Context) ([]Booth, error) {
	var booths []Booth

	result := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("assign_order asc").
		Find(&booths)
	if result.Error != nil {
		return nil, result.Error
	}

	return booths, nil
}

// MaxAssignOrder returns the highest assign order ever issued, active or not.
// Inactive booths retain their slot, so their orders are never reused.
func (d *BoothDAO) MaxAssignOrder(ctx context.Context) (int, error) {
	var max int

	result := d.db.WithContext(ctx).
		Model(&Booth{}).
		Select("COALESCE(MAX(assign_order), 0)").
		Scan(&max)
	if result.Error != nil {
		return 0, result.Error
	}

	return max, nil
}

// NextAvailable returns the active, unassigned booth with the lowest assign
// order whose zone is the requested one or UNDEFINED.
func (d *BoothDAO) NextAvailable(ctx context.Context, zone string) (Booth, error) {
	return nextAvailableBooth(d.db.WithContext(ctx), zone)
}

// nextAvailableBooth runs the shared booth-selection query; tx may be a live
// transaction so allocation can select and bind atomically.
func nextAvailableBooth(tx *gorm.DB, zone string) (Booth, error) {
	var booth Booth

	result := tx.
		Where("is_active = ?", true).
		Where("zone = ? OR zone = ?", zone, "UNDEFINED").
		Where("NOT EXISTS (SELECT 1 FROM assignments a WHERE a.booth_id = booths.id AND a.status IN ?)",
			[]string{"PENDING", "CONFIRMED"}).
		Order("assign_order asc").
		First(&booth)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Booth{}, ErrNoBoothAvailable
		}

		return Booth{}, result.Error
	}

	return booth, nil
}

// UpdateOrders writes a full reorder back in one transaction.
func (d *BoothDAO) UpdateOrders(ctx context.Context, orders []BoothOrder) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			result := tx.Model(&Booth{}).
				Where("id = ?", o.ID).
				Update("assign_order", o.AssignOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrBoothNotFound
			}
		}

		return nil
	})
}

// SetActive toggles is_active for the given booths. Disabling a booth that
// still has a live assignment fails with ErrBoothInUse and nothing changes.
func (d *BoothDAO) SetActive(ctx context.Context, ids []uint, active bool) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !active {
			var count int64
			err := tx.Model(&Assignment{}).
				Where("booth_id IN ?", ids).
				Where("status IN ?", []string{"PENDING", "CONFIRMED"}).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrBoothInUse
			}
		}

		result := tx.Model(&Booth{}).Where("id IN ?", ids).Update("is_active", active)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return ErrBoothNotFound
		}

		return nil
	})
}

// LiveAssignedBoothIDs returns the ids of booths currently bound by a live
// assignment, for deriving Booth.IsAssigned.
func (d *BoothDAO) LiveAssignedBoothIDs(ctx context.Context) (map[uint]bool, error) {
	var ids []uint

	err := d.db.WithContext(ctx).
		Model(&Assignment{}).
		Where("status IN ?", []string{"PENDING", "CONFIRMED"}).
		Pluck("booth_id", &ids).Error
	if err != nil {
		return nil, err
	}

	assigned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		assigned[id] = true
	}

	return assigned, nil
}

// ZoneCounts aggregates per-zone booth totals for the stats endpoint.
func (d *BoothDAO) ZoneCounts(ctx context.Context) (map[string]ZoneCount, error) {
	booths, err := d.ListActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}

	var confirmed []struct {
		BoothID uint
		Status  string
	}
	err = d.db.WithContext(ctx).
		Model(&Assignment{}).
		Select("booth_id, status").
		Where("status IN ?", []string{"PENDING", "CONFIRMED"}).
		Scan(&confirmed).Error
	if err != nil {
		return nil, err
	}

	liveByBooth := make(map[uint]string, len(confirmed))
	for _, c := range confirmed {
		liveByBooth[c.BoothID] = c.Status
	}

	counts := make(map[string]ZoneCount)
	for _, b := range booths {
		c := counts[b.Zone]
		c.Total++
		switch liveByBooth[b.ID] {
		case "CONFIRMED":
			c.Confirmed++
		case "PENDING":
			// Bound but not finalized; neither confirmed nor available.
		default:
			c.Available++
		}
		counts[b.Zone] = c
	}

	return counts, nil
}

type ZoneCount struct {
	Total     int
	Confirmed int
	Available int
}

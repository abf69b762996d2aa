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
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrPendingAssignmentExists = errors.New("a pending lottery assignment already exists")
	ErrAlreadyAssigned         = errors.New("store already has a live assignment")
	ErrInvalidTransition       = errors.New("invalid assignment state transition")
)

type Assignment struct {
	ID      uint `gorm:"primaryKey"`
	BoothID uint `gorm:"not null;index"`
	Booth   Booth
	StoreID uint `gorm:"not null;index"`
	Store   Store

	// DrawOrder 0 marks a manual assignment; lottery draws count from 1.
	DrawOrder int    `gorm:"not null;default:0"`
	Status    string `gorm:"not null;index"`

	VerifiedByNisitID *string
	VerifiedAt        *time.Time
	ForfeitReason     string

	CreatedAt time.Time `gorm:"not null"`
}

type AssignmentDAO struct {
	db *gorm.DB
}

func NewAssignmentDAO(db *gorm.DB) *AssignmentDAO {
	return &AssignmentDAO{
		db: db,
	}
}

// Allocate binds the store to the next available booth of the zone in one
// transaction: single-flight check (lottery only), per-store live check, booth
// selection, zone claim for UNDEFINED booths, draw-order sequencing and row
// creation. manual skips the system-wide pending check and records the
// draw-order sentinel.
func (d *AssignmentDAO) Allocate(ctx context.Context, storeID uint, zone string, manual bool) (Assignment, error) {
	var assignment Assignment

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !manual {
			var pending int64
			err := tx.Model(&Assignment{}).
				Where("status = ? AND draw_order > 0", "PENDING").
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return ErrPendingAssignmentExists
			}
		}

		var live int64
		err := tx.Model(&Assignment{}).
			Where("store_id = ?", storeID).
			Where("status IN ?", []string{"PENDING", "CONFIRMED"}).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrAlreadyAssigned
		}

		booth, err := nextAvailableBooth(tx, zone)
		if err != nil {
			return err
		}

		// One-way zone claim: an UNDEFINED booth joins the requested
		// zone permanently on its first assignment.
		if booth.Zone == "UNDEFINED" {
			err = tx.Model(&Booth{}).Where("id = ?", booth.ID).Update("zone", zone).Error
			if err != nil {
				return err
			}
		}

		drawOrder := 0
		if !manual {
			var max int
			err = tx.Model(&Assignment{}).
				Select("COALESCE(MAX(draw_order), 0)").
				Scan(&max).Error
			if err != nil {
				return err
			}
			drawOrder = max + 1
		}

		assignment = Assignment{
			BoothID:   booth.ID,
			StoreID:   storeID,
			DrawOrder: drawOrder,
			Status:    "PENDING",
		}

		if err = tx.Create(&assignment).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				// Lost a cross-process race to one of the partial unique
				// indexes.
				return allocationConflict(pgErr)
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Assignment{}, err
	}

	return assignment, nil
}

// allocationConflict maps a unique-violation insert failure to the invariant
// that rejected it: losing to the single-pending index is a single-flight
// violation, losing to the live booth/store indexes is a double placement.
func allocationConflict(pgErr *pgconn.PgError) error {
	if strings.Contains(pgErr.Message, "idx_assignments_single_pending_draw") {
		return ErrPendingAssignmentExists
	}

	return ErrAlreadyAssigned
}

func (d *AssignmentDAO) GetByID(ctx context.Context, id uint) (Assignment, error) {
	var assignment Assignment

	result := d.db.WithContext(ctx).First(&assignment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Assignment{}, ErrAssignmentNotFound
		}

		return Assignment{}, result.Error
	}

	return assignment, nil
}

func (d *AssignmentDAO) List(ctx context.Context) ([]Assignment, error) {
	var assignments []Assignment

	result := d.db.WithContext(ctx).Order("created_at desc, id desc").Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}

	return assignments, nil
}

// Confirm moves a PENDING assignment to CONFIRMED and stamps the verifying
// credential. Any other starting state fails with ErrInvalidTransition. The
// status predicate on the update makes the transition atomic: a concurrent
// writer that already moved the row out of PENDING leaves nothing to match.
func (d *AssignmentDAO) Confirm(ctx context.Context, id uint, nisitID string, at time.Time) (Assignment, error) {
	var assignment Assignment

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Assignment{}).
			Where("id = ? AND status = ?", id, "PENDING").
			Updates(map[string]interface{}{
				"status":               "CONFIRMED",
				"verified_by_nisit_id": nisitID,
				"verified_at":          at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return transitionRejection(tx, id)
		}

		return tx.First(&assignment, id).Error
	})
	if err != nil {
		return Assignment{}, err
	}

	return assignment, nil
}

// Forfeit moves a PENDING assignment to FORFEITED, with the same guarded
// update as Confirm. The partial unique indexes only cover live rows, so the
// booth and store become allocatable again the moment the transaction commits.
func (d *AssignmentDAO) Forfeit(ctx context.Context, id uint, reason string) (Assignment, error) {
	var assignment Assignment

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Assignment{}).
			Where("id = ? AND status = ?", id, "PENDING").
			Updates(map[string]interface{}{
				"status":         "FORFEITED",
				"forfeit_reason": reason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return transitionRejection(tx, id)
		}

		return tx.First(&assignment, id).Error
	})
	if err != nil {
		return Assignment{}, err
	}

	return assignment, nil
}

// transitionRejection tells a missing row apart from one that is no longer
// PENDING after a guarded update matched nothing.
func transitionRejection(tx *gorm.DB, id uint) error {
	if err := tx.First(&Assignment{}, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}

		return err
	}

	return ErrInvalidTransition
}

// HasLiveByStoreID reports whether the store currently holds a live
// assignment. The lottery re-checks this at draw time; the pool is a cache,
// never the authority.
func (d *AssignmentDAO) HasLiveByStoreID(ctx context.Context, storeID uint) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).
		Model(&Assignment{}).
		Where("store_id = ?", storeID).
		Where("status IN ?", []string{"PENDING", "CONFIRMED"}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

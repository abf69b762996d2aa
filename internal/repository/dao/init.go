package dao

import "gorm.io/gorm"

// InitTables migrates the schema and creates the partial unique indexes that
// enforce the allocation invariants at the storage boundary:
//   - at most one live (PENDING/CONFIRMED) assignment per booth,
//   - at most one live assignment per store,
//   - at most one PENDING lottery assignment system-wide (manual assignments,
//     draw_order = 0, are exempt).
func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Booth{},
		&Store{},
		&StoreMember{},
		&Assignment{},
	)
	if err != nil {
		return err
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_live_booth
			ON assignments (booth_id) WHERE status IN ('PENDING', 'CONFIRMED')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_live_store
			ON assignments (store_id) WHERE status IN ('PENDING', 'CONFIRMED')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_single_pending_draw
			ON assignments (status) WHERE status = 'PENDING' AND draw_order > 0`,
	}
	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}

	return nil
}

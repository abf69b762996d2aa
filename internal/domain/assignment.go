package domain

import "time"

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentConfirmed AssignmentStatus = "CONFIRMED"
	AssignmentForfeited AssignmentStatus = "FORFEITED"
)

// ManualDrawOrder is the DrawOrder sentinel for assignments created outside
// the lottery. Lottery draw orders start at 1.
const ManualDrawOrder = 0

// Assignment binds a booth to a store. At most one live (pending or
// confirmed) assignment may exist per booth and per store.
type Assignment struct {
	ID                uint             `json:"id"`
	BoothID           uint             `json:"booth_id"`
	StoreID           uint             `json:"store_id"`
	DrawOrder         int              `json:"draw_order"`
	Status            AssignmentStatus `json:"status"`
	VerifiedByNisitID *string          `json:"verified_by_nisit_id,omitempty"`
	VerifiedAt        *time.Time       `json:"verified_at,omitempty"`
	ForfeitReason     string           `json:"forfeit_reason,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// IsLive reports whether the assignment still occupies its booth and store.
func (a *Assignment) IsLive() bool {
	return a.Status == AssignmentPending || a.Status == AssignmentConfirmed
}

// IsManual reports whether the assignment was placed outside the lottery.
func (a *Assignment) IsManual() bool {
	return a.DrawOrder == ManualDrawOrder
}

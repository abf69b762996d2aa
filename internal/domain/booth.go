package domain

import "time"

type Zone string

const (
	ZoneFood      Zone = "FOOD"
	ZoneNonFood   Zone = "NON_FOOD"
	ZoneUndefined Zone = "UNDEFINED"
)

func (z Zone) IsValid() bool {
	return z == ZoneFood || z == ZoneNonFood || z == ZoneUndefined
}

// Booth is one physical booth slot. AssignOrder is the priority rank used to
// pick the next booth inside a zone (lower is assigned first). Booths start in
// ZoneUndefined and are claimed into a real zone by their first assignment.
type Booth struct {
	ID          uint      `json:"id"`
	BoothNumber string    `json:"booth_number"`
	Zone        Zone      `json:"zone"`
	AssignOrder int       `json:"assign_order"`
	IsActive    bool      `json:"is_active"`
	IsAssigned  bool      `json:"is_assigned"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ZoneStats is the derived per-zone dashboard counter set.
type ZoneStats struct {
	Zone      Zone `json:"zone"`
	Total     int  `json:"total"`
	Confirmed int  `json:"confirmed"`
	Available int  `json:"available"`
}

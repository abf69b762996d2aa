package domain

type GoodsType string

const (
	GoodsTypeFood    GoodsType = "Food"
	GoodsTypeNonFood GoodsType = "NonFood"
)

// Zone returns the booth zone a store with this goods type may occupy.
func (g GoodsType) Zone() Zone {
	if g == GoodsTypeFood {
		return ZoneFood
	}

	return ZoneNonFood
}

type StoreType string

const (
	StoreTypeNisit StoreType = "Nisit"
	StoreTypeClub  StoreType = "Club"
)

type StoreState string

const (
	StoreStateCreated   StoreState = "Created"
	StoreStateValidated StoreState = "Validated"
	StoreStateRejected  StoreState = "Rejected"
)

// Store is a vendor store as seen by the allocation subsystem. Only Validated
// stores are draw-eligible.
type Store struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	GoodsType GoodsType  `json:"goods_type"`
	State     StoreState `json:"state"`
	Type      StoreType  `json:"type"`
}

// StoreMember is one entry of a store's authorized member roster. NisitID is
// the student card / barcode credential scanned during confirmation.
type StoreMember struct {
	ID      uint   `json:"id"`
	StoreID uint   `json:"store_id"`
	NisitID string `json:"nisit_id"`
	Name    string `json:"name"`
}

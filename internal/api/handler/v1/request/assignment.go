package request

import (
	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// credentialRe matches a scanned nisit card barcode: digits only, or the
// dashed card form, but never shorter than six characters overall.
var credentialRe = regexp2.MustCompile(`^(?=[\d-]{6,20}$)\d+(-\d+)*$`, regexp2.None)

type LotteryAssignRequest struct {
	StoreID uint `json:"store_id" binding:"required"`
}

func (req *LotteryAssignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StoreID, validation.Required, validation.Min(uint(1))),
	)
}

type ManualAssignRequest struct {
	StoreID uint `json:"store_id" binding:"required"`
}

func (req *ManualAssignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StoreID, validation.Required, validation.Min(uint(1))),
	)
}

type ConfirmAssignmentRequest struct {
	Credential string `json:"credential" binding:"required"`
}

func (req *ConfirmAssignmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Credential, validation.Required,
			validation.By(matchPattern(credentialRe, "credential must be a 6-20 digit card number"))),
	)
}

type ForfeitAssignmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (req *ForfeitAssignmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(2, 200)),
	)
}

package request

import (
	"fmt"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// boothPrefixRe accepts short uppercase block prefixes like "M" or "FB",
// rejecting prefixes that are all digits (the numeric part is generated).
var boothPrefixRe = regexp2.MustCompile(`^(?!\d+$)[A-Z0-9]{1,4}$`, regexp2.None)

func matchPattern(re *regexp2.Regexp, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		ok, err := re.MatchString(s)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%v", message)
		}

		return nil
	}
}

type ImportBoothsRequest struct {
	Prefix        string `json:"prefix" binding:"required"`
	Start         int    `json:"start"`
	End           int    `json:"end" binding:"required"`
	PriorityStart int    `json:"priority_start" binding:"required,min=1"`
}

func (req *ImportBoothsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Prefix, validation.Required,
			validation.By(matchPattern(boothPrefixRe, "prefix must be 1-4 uppercase letters or digits, not all digits"))),
		validation.Field(&req.Start, validation.Min(0)),
		validation.Field(&req.End, validation.Required, validation.Min(req.Start)),
		validation.Field(&req.PriorityStart, validation.Required, validation.Min(1)),
	)
}

type ReorderRequest struct {
	Kind        string  `json:"kind" binding:"required"`
	Zone        *string `json:"zone"`
	BoothID     uint    `json:"booth_id"`
	BoothIDs    []uint  `json:"booth_ids"`
	TargetIndex int     `json:"target_index"`
	OverBoothID uint    `json:"over_booth_id"`
}

func (req *ReorderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Kind, validation.Required,
			validation.In("MOVE_SINGLE", "MOVE_MULTIPLE", "REVERSE_SELECTION", "DRAG")),
		validation.Field(&req.Zone, validation.In("FOOD", "NON_FOOD", "UNDEFINED")),
		validation.Field(&req.TargetIndex, validation.Min(0)),
	)
}

type ToggleBoothsRequest struct {
	BoothIDs []uint `json:"booth_ids" binding:"required,min=1"`
}

func (req *ToggleBoothsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BoothIDs, validation.Required, validation.Length(1, 0)),
	)
}

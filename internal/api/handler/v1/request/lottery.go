package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type LoadPoolRequest struct {
	StoreType *string `json:"store_type"`
}

func (req *LoadPoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StoreType, validation.In("Nisit", "Club")),
	)
}

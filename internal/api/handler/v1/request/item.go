package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateItemRequest struct {
	Name       string `json:"name"`
	MinDkpCost int    `json:"min_dkp_cost"`
}

func (req *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.MinDkpCost, validation.Min(0)),
	)
}

type UpdateItemRequest struct {
	Name       string `json:"name"`
	MinDkpCost int    `json:"min_dkp_cost"`
}

func (req *UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.MinDkpCost, validation.Min(0)),
	)
}

type CreateWishRequest struct {
	CharacterID uint `json:"character_id"`
	ItemID      uint `json:"item_id"`
}

func (req *CreateWishRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CharacterID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ItemID, validation.Required, validation.Min(uint(1))),
	)
}

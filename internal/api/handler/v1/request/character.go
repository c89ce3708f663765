package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCharacterRequest struct {
	Name       string `json:"name"`
	CombatRole string `json:"combat_role"`
}

func (req *CreateCharacterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.CombatRole, validation.In("tank", "healer", "damage")),
	)
}

type UpdateCharacterRequest struct {
	Name       string `json:"name"`
	CombatRole string `json:"combat_role"`
	Status     string `json:"status"`
}

func (req *UpdateCharacterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.CombatRole, validation.In("tank", "healer", "damage")),
		validation.Field(&req.Status, validation.Required, validation.In("ACTIVE", "NOT_ACTIVE")),
	)
}

type AdjustDkpRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (req *AdjustDkpRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Delta, validation.Required),
		validation.Field(&req.Reason, validation.Length(0, 200)),
	)
}

package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func (req *ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In("MEMBER", "OFFICER", "ADMIN")),
	)
}

package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RecordAttendanceRequest struct {
	CharacterID uint `json:"character_id"`
}

func (req *RecordAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CharacterID, validation.Required, validation.Min(uint(1))),
	)
}

type BulkAttendanceRequest struct {
	CharacterIDs []uint `json:"character_ids"`
}

func (req *BulkAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CharacterIDs, validation.Required, validation.Length(1, 200)),
	)
}

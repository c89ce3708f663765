package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	errInvalidTimeFormat = errors.New("times must be RFC 3339 timestamps")
	errEndBeforeStart    = errors.New("ends_at must be after starts_at")
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	DkpReward   int    `json:"dkp_reward"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
		validation.Field(&req.DkpReward, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if _, _, err := req.Times(); err != nil {
		return err
	}

	return nil
}

// Times parses and sanity-checks the start/end timestamps.
func (req *CreateEventRequest) Times() (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidTimeFormat
	}

	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidTimeFormat
	}

	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, errEndBeforeStart
	}

	return startsAt, endsAt, nil
}

type RecurrenceRequest struct {
	IntervalWeeks int `json:"interval_weeks"`
	DayOfWeek     int `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Occurrences   int `json:"occurrences"`
}

type CreateRecurringEventRequest struct {
	CreateEventRequest
	Recurrence RecurrenceRequest `json:"recurrence"`
}

func (req *CreateRecurringEventRequest) Validate() error {
	if err := req.CreateEventRequest.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		&req.Recurrence,
		validation.Field(&req.Recurrence.IntervalWeeks, validation.Required, validation.Min(1), validation.Max(4)),
		validation.Field(&req.Recurrence.DayOfWeek, validation.Min(0), validation.Max(6)),
		validation.Field(&req.Recurrence.Occurrences, validation.Required, validation.Min(1), validation.Max(52)),
	)
}

package domain

import "time"

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	DkpReward   int       `json:"dkp_reward"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e Event) Duration() time.Duration {
	return e.EndsAt.Sub(e.StartsAt)
}

// EventTemplate carries the fields from which a single event or a
// recurring series is created.
type EventTemplate struct {
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	DkpReward   int
}

// EventStats is the aggregate attendance view of one event.
type EventStats struct {
	EventID      uint `json:"event_id"`
	Attendees    int  `json:"attendees"`
	TotalAwarded int  `json:"total_awarded"`
}

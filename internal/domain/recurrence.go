package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval    = errors.New("interval must be between 1 and 4 weeks")
	ErrInvalidDayOfWeek   = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidOccurrences = errors.New("occurrences must be between 1 and 52")
	ErrInvalidDuration    = errors.New("event must end after it starts")
)

// RecurrenceRule describes a bounded weekly series of events.
type RecurrenceRule struct {
	IntervalWeeks int
	DayOfWeek     time.Weekday
	Occurrences   int
}

func (r RecurrenceRule) Validate() error {
	if r.IntervalWeeks < 1 || r.IntervalWeeks > 4 {
		return ErrInvalidInterval
	}
	if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
		return ErrInvalidDayOfWeek
	}
	if r.Occurrences < 1 || r.Occurrences > 52 {
		return ErrInvalidOccurrences
	}
	return nil
}

// Expand materializes the series described by the rule. The first
// occurrence starts on the first date on or after the template's start
// whose weekday matches DayOfWeek (time of day preserved); each further
// occurrence is IntervalWeeks*7 days after the previous one and keeps
// the template's duration. Nothing is persisted here.
func (r RecurrenceRule) Expand(tpl EventTemplate) ([]Event, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	duration := tpl.EndsAt.Sub(tpl.StartsAt)
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	shift := (int(r.DayOfWeek) - int(tpl.StartsAt.Weekday()) + 7) % 7
	first := tpl.StartsAt.AddDate(0, 0, shift)

	events := make([]Event, 0, r.Occurrences)
	for i := 0; i < r.Occurrences; i++ {
		start := first.AddDate(0, 0, i*r.IntervalWeeks*7)

		title := tpl.Title
		if i > 0 {
			title = fmt.Sprintf("%s (Week %d)", tpl.Title, i+1)
		}

		events = append(events, Event{
			Title:       title,
			Description: tpl.Description,
			StartsAt:    start,
			EndsAt:      start.Add(duration),
			DkpReward:   tpl.DkpReward,
		})
	}

	return events, nil
}

// OccurrenceFailure reports one occurrence of a series that could not
// be persisted. The rest of the series is created regardless.
type OccurrenceFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type RecurringResult struct {
	Created  []Event             `json:"created"`
	Failures []OccurrenceFailure `json:"failures"`
}

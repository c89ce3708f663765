package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    RecurrenceRule
		wantErr error
	}{
		{"valid weekly", RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 4}, nil},
		{"valid monthly-ish", RecurrenceRule{IntervalWeeks: 4, DayOfWeek: time.Saturday, Occurrences: 52}, nil},
		{"zero interval", RecurrenceRule{IntervalWeeks: 0, DayOfWeek: time.Monday, Occurrences: 4}, ErrInvalidInterval},
		{"interval too long", RecurrenceRule{IntervalWeeks: 5, DayOfWeek: time.Monday, Occurrences: 4}, ErrInvalidInterval},
		{"day out of range", RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Weekday(7), Occurrences: 4}, ErrInvalidDayOfWeek},
		{"zero occurrences", RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 0}, ErrInvalidOccurrences},
		{"too many occurrences", RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 53}, ErrInvalidOccurrences},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRecurrenceRuleExpand(t *testing.T) {
	// Monday 2025-10-06, 20:00-23:00 UTC.
	tpl := EventTemplate{
		Title:       "Molten Core",
		Description: "weekly clear",
		StartsAt:    time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2025, 10, 6, 23, 0, 0, 0, time.UTC),
		DkpReward:   50,
	}

	t.Run("shifts forward to the requested weekday", func(t *testing.T) {
		rule := RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Tuesday, Occurrences: 3}

		events, err := rule.Expand(tpl)
		require.NoError(t, err)
		require.Len(t, events, 3)

		// Monday start + Tuesday rule => first occurrence is the next day.
		assert.Equal(t, time.Date(2025, 10, 7, 20, 0, 0, 0, time.UTC), events[0].StartsAt)
		assert.Equal(t, time.Date(2025, 10, 14, 20, 0, 0, 0, time.UTC), events[1].StartsAt)
		assert.Equal(t, time.Date(2025, 10, 21, 20, 0, 0, 0, time.UTC), events[2].StartsAt)
	})

	t.Run("matching weekday starts on the template date", func(t *testing.T) {
		rule := RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 2}

		events, err := rule.Expand(tpl)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, tpl.StartsAt, events[0].StartsAt)
		assert.Equal(t, tpl.StartsAt.AddDate(0, 0, 7), events[1].StartsAt)
	})

	t.Run("titles number every occurrence after the first", func(t *testing.T) {
		rule := RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 3}

		events, err := rule.Expand(tpl)
		require.NoError(t, err)
		assert.Equal(t, "Molten Core", events[0].Title)
		assert.Equal(t, "Molten Core (Week 2)", events[1].Title)
		assert.Equal(t, "Molten Core (Week 3)", events[2].Title)
	})

	t.Run("duration and reward carry to every occurrence", func(t *testing.T) {
		rule := RecurrenceRule{IntervalWeeks: 2, DayOfWeek: time.Sunday, Occurrences: 4}

		events, err := rule.Expand(tpl)
		require.NoError(t, err)
		for _, e := range events {
			assert.Equal(t, 3*time.Hour, e.Duration())
			assert.Equal(t, 50, e.DkpReward)
			assert.Equal(t, "weekly clear", e.Description)
		}
	})

	t.Run("interval spaces occurrences in weeks", func(t *testing.T) {
		rule := RecurrenceRule{IntervalWeeks: 3, DayOfWeek: time.Monday, Occurrences: 2}

		events, err := rule.Expand(tpl)
		require.NoError(t, err)
		assert.Equal(t, 21*24*time.Hour, events[1].StartsAt.Sub(events[0].StartsAt))
	})

	t.Run("rejects a template that never ends", func(t *testing.T) {
		bad := tpl
		bad.EndsAt = bad.StartsAt

		_, err := RecurrenceRule{IntervalWeeks: 1, DayOfWeek: time.Monday, Occurrences: 1}.Expand(bad)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("rejects an invalid rule before expanding", func(t *testing.T) {
		_, err := RecurrenceRule{IntervalWeeks: 9, DayOfWeek: time.Monday, Occurrences: 1}.Expand(tpl)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

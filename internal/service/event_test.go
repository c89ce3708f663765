package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/guildops-api/internal/domain"
)

type fakeEventRepo struct {
	nextID     uint
	created    []domain.Event
	failTitles map[string]error
	byID       map[uint]domain.Event
	stats      domain.EventStats
}

func (f *fakeEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err, ok := f.failTitles[event.Title]; ok {
		return domain.Event{}, err
	}
	f.nextID++
	event.ID = f.nextID
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	event, ok := f.byID[id]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) FindAll(ctx context.Context) ([]domain.Event, error) {
	return f.created, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return event, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

func (f *fakeEventRepo) Stats(ctx context.Context, id uint) (domain.EventStats, error) {
	return f.stats, nil
}

func tplAt(weekday time.Time) domain.EventTemplate {
	return domain.EventTemplate{
		Title:     "Onyxia",
		StartsAt:  weekday,
		EndsAt:    weekday.Add(2 * time.Hour),
		DkpReward: 30,
	}
}

func TestEventServiceCreateEvent(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewEventService(repo)

	start := time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC)

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), domain.Event{
			Title:    "Onyxia",
			StartsAt: start,
			EndsAt:   start.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("rejects negative reward", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), domain.Event{
			Title:     "Onyxia",
			StartsAt:  start,
			EndsAt:    start.Add(time.Hour),
			DkpReward: -5,
		})
		assert.ErrorIs(t, err, ErrNegativeReward)
	})

	t.Run("persists a valid event", func(t *testing.T) {
		created, err := svc.CreateEvent(context.Background(), domain.Event{
			Title:     "Onyxia",
			StartsAt:  start,
			EndsAt:    start.Add(time.Hour),
			DkpReward: 30,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})
}

func TestEventServiceCreateRecurring(t *testing.T) {
	start := time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC) // Monday

	t.Run("creates every occurrence", func(t *testing.T) {
		repo := &fakeEventRepo{}
		svc := NewEventService(repo)

		result, err := svc.CreateRecurring(context.Background(), tplAt(start), domain.RecurrenceRule{
			IntervalWeeks: 1,
			DayOfWeek:     time.Monday,
			Occurrences:   3,
		})
		require.NoError(t, err)
		assert.Len(t, result.Created, 3)
		assert.Empty(t, result.Failures)
	})

	t.Run("one failed occurrence does not block the rest", func(t *testing.T) {
		repo := &fakeEventRepo{
			failTitles: map[string]error{
				"Onyxia (Week 2)": errors.New("insert failed"),
			},
		}
		svc := NewEventService(repo)

		result, err := svc.CreateRecurring(context.Background(), tplAt(start), domain.RecurrenceRule{
			IntervalWeeks: 1,
			DayOfWeek:     time.Monday,
			Occurrences:   3,
		})
		require.NoError(t, err)
		assert.Len(t, result.Created, 2)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, 1, result.Failures[0].Index)
		assert.Contains(t, result.Failures[0].Reason, "insert failed")
	})

	t.Run("invalid rule fails up front", func(t *testing.T) {
		repo := &fakeEventRepo{}
		svc := NewEventService(repo)

		_, err := svc.CreateRecurring(context.Background(), tplAt(start), domain.RecurrenceRule{
			IntervalWeeks: 0,
			DayOfWeek:     time.Monday,
			Occurrences:   3,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
		assert.Empty(t, repo.created)
	})

	t.Run("negative reward fails up front", func(t *testing.T) {
		repo := &fakeEventRepo{}
		svc := NewEventService(repo)

		tpl := tplAt(start)
		tpl.DkpReward = -1
		_, err := svc.CreateRecurring(context.Background(), tpl, domain.RecurrenceRule{
			IntervalWeeks: 1,
			DayOfWeek:     time.Monday,
			Occurrences:   3,
		})
		assert.ErrorIs(t, err, ErrNegativeReward)
	})
}

func TestEventServiceGetEventStats(t *testing.T) {
	repo := &fakeEventRepo{stats: domain.EventStats{EventID: 7, Attendees: 12, TotalAwarded: 600}}
	svc := NewEventService(repo)

	stats, err := svc.GetEventStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Attendees)
	assert.Equal(t, 600, stats.TotalAwarded)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository"
)

var (
	ErrEventNotFound   = repository.ErrEventNotFound
	ErrInvalidSchedule = errors.New("event must end after it starts")
	ErrNegativeReward  = errors.New("dkp reward cannot be negative")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, id uint) (domain.EventStats, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if !event.EndsAt.After(event.StartsAt) {
		return domain.Event{}, ErrInvalidSchedule
	}
	if event.DkpReward < 0 {
		return domain.Event{}, ErrNegativeReward
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// CreateRecurring expands the template into a series and persists each
// occurrence independently: one failed insert is reported in the result
// and does not block the rest. The series is not all-or-nothing.
func (s *EventService) CreateRecurring(ctx context.Context, tpl domain.EventTemplate, rule domain.RecurrenceRule) (domain.RecurringResult, error) {
	if tpl.DkpReward < 0 {
		return domain.RecurringResult{}, ErrNegativeReward
	}

	series, err := rule.Expand(tpl)
	if err != nil {
		return domain.RecurringResult{}, err
	}

	result := domain.RecurringResult{
		Created:  make([]domain.Event, 0, len(series)),
		Failures: []domain.OccurrenceFailure{},
	}
	for i, event := range series {
		created, err := s.repo.Create(ctx, event)
		if err != nil {
			zap.L().Warn("recurring event occurrence not created",
				zap.Int("occurrence", i),
				zap.String("title", event.Title),
				zap.Error(err))
			result.Failures = append(result.Failures, domain.OccurrenceFailure{
				Index:  i,
				Reason: err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, created)
	}

	return result, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if !event.EndsAt.After(event.StartsAt) {
		return domain.Event{}, ErrInvalidSchedule
	}
	if event.DkpReward < 0 {
		return domain.Event{}, ErrNegativeReward
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) GetEventStats(ctx context.Context, id uint) (domain.EventStats, error) {
	stats, err := s.repo.Stats(ctx, id)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	return stats, nil
}

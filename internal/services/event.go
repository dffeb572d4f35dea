package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateEvent stores a new event owned by organizerID and returns it with the
// organizer expanded.
func (s *eventService) CreateEvent(ctx context.Context, input domain.EventInput, organizerID string) (*domain.EventDetails, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	organizer, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}

	now := s.now()
	event := domain.NewEvent(input.Name, input.Description, input.Date, input.Location, organizer.ID, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrOrganizerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return domain.ExpandEvent(event, map[string]*domain.User{organizer.ID: organizer}), nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

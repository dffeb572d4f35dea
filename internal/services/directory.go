package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

type directoryService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewDirectoryService returns the read side of events. Organizer and participant
// ids are resolved with one batched user lookup per call.
func NewDirectoryService(eventRepo domain.EventRepository, userRepo domain.UserRepository, timeout time.Duration) domain.DirectoryService {
	return &directoryService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *directoryService) ListEvents(ctx context.Context) ([]*domain.EventDetails, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return s.expand(ctx, events)
}

func (s *directoryService) GetEvent(ctx context.Context, id string) (*domain.EventDetails, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	details, err := s.expand(ctx, []*domain.Event{event})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *directoryService) expand(ctx context.Context, events []*domain.Event) ([]*domain.EventDetails, error) {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, e := range events {
		add(e.OrganizerID)
		for _, p := range e.Participants {
			add(p)
		}
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	details := make([]*domain.EventDetails, 0, len(events))
	for _, e := range events {
		details = append(details, domain.ExpandEvent(e, byID))
	}
	return details, nil
}

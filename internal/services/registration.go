package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/metrics"
)

type registrationService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	notifier       domain.Notifier
	contextTimeout time.Duration
}

// NewRegistrationService returns a RegistrationService. notifier may be nil, in
// which case no confirmation is sent.
func NewRegistrationService(eventRepo domain.EventRepository, userRepo domain.UserRepository, notifier domain.Notifier, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		contextTimeout: timeout,
	}
}

// RegisterForEvent adds userID to the event's participants and queues a
// confirmation. The confirmation is best effort and never affects the result.
func (s *registrationService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	ctx, cancel := withTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event.HasParticipant(userID) {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeAlreadyRegistered).Inc()
		return nil, domain.ErrAlreadyRegistered
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	updated, err := s.eventRepo.AddParticipant(ctx, event.ID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeAlreadyRegistered).Inc()
			return nil, err
		case errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRegistered).Inc()

	if s.notifier != nil {
		s.notifier.Enqueue(&domain.RegistrationConfirmationEmailData{
			Email:     user.Email,
			Name:      user.Name,
			EventName: updated.Name,
		})
	}
	return updated, nil
}

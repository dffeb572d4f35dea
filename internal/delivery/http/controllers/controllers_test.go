package controllers

import (
	"context"
	"io"
	"log/slog"

	"eventhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	user       *domain.User
	token      string
	err        error
	lastName   string
	lastEmail  string
	lastRole   string
	lastPasswd string
}

func (f *fakeUserService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	f.lastName, f.lastEmail, f.lastPasswd, f.lastRole = name, email, password, role
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPasswd = email, password
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	details         *domain.EventDetails
	event           *domain.Event
	err             error
	lastInput       domain.EventInput
	lastOrganizerID string
	lastID          string
	lastUpdate      domain.EventUpdate
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input domain.EventInput, organizerID string) (*domain.EventDetails, error) {
	f.lastInput, f.lastOrganizerID = input, organizerID
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	f.lastID, f.lastUpdate = id, update
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

// fakeDirectoryService implements domain.DirectoryService for handler tests.
type fakeDirectoryService struct {
	events []*domain.EventDetails
	event  *domain.EventDetails
	err    error
	lastID string
}

func (f *fakeDirectoryService) ListEvents(ctx context.Context) ([]*domain.EventDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeDirectoryService) GetEvent(ctx context.Context, id string) (*domain.EventDetails, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	event       *domain.Event
	err         error
	lastEventID string
	lastUserID  string
}

func (f *fakeRegistrationService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	f.lastEventID, f.lastUserID = eventID, userID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

package domain

import (
	"context"
	"slices"
	"time"
)

// Event is an organizer-owned happening that users can register for.
// Participants holds user ids with no duplicates.
// swagger:model Event
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location,omitempty"`
	OrganizerID  string    `json:"organizer"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with no participants. ID is typically set by the repository on create.
func NewEvent(name, description string, date time.Time, location, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:         name,
		Description:  description,
		Date:         date,
		Location:     location,
		OrganizerID:  organizerID,
		Participants: []string{},
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// HasParticipant reports whether userID is already registered.
func (e *Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

// EventInput carries the fields needed to create an event.
type EventInput struct {
	Name        string
	Description string
	Date        time.Time
	Location    string
}

// EventUpdate is a partial update. Nil fields are left unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	Date        *time.Time
	Location    *string
}

// Empty reports whether the update carries no field.
func (u EventUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Date == nil && u.Location == nil
}

// Apply copies the provided fields onto e. Organizer and participants are never touched.
func (u EventUpdate) Apply(e *Event) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
}

// EventDetails is an event with its organizer and participants expanded.
// A nil Organizer means the organizer account no longer exists.
// swagger:model EventDetails
type EventDetails struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Date         time.Time      `json:"date"`
	Location     string         `json:"location,omitempty"`
	Organizer    *UserSummary   `json:"organizer"`
	Participants []*UserSummary `json:"participants"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ExpandEvent builds EventDetails for e using users keyed by id. Ids without a
// matching user are dropped.
func ExpandEvent(e *Event, users map[string]*User) *EventDetails {
	d := &EventDetails{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Date:         e.Date,
		Location:     e.Location,
		Participants: make([]*UserSummary, 0, len(e.Participants)),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if u, ok := users[e.OrganizerID]; ok {
		d.Organizer = u.Summary()
	}
	for _, id := range e.Participants {
		if u, ok := users[id]; ok {
			d.Participants = append(d.Participants, u.Summary())
		}
	}
	return d
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, update EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	// AddParticipant appends userID to the event's participants if it is absent,
	// as a single atomic step. Returns ErrAlreadyRegistered when present and
	// ErrNotFound when the event does not exist.
	AddParticipant(ctx context.Context, eventID, userID string) (*Event, error)
}

// EventService holds the organizer-side mutations of events.
type EventService interface {
	CreateEvent(ctx context.Context, input EventInput, organizerID string) (*EventDetails, error)
	UpdateEvent(ctx context.Context, id string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// DirectoryService is the read side: events with related users expanded.
type DirectoryService interface {
	ListEvents(ctx context.Context) ([]*EventDetails, error)
	GetEvent(ctx context.Context, id string) (*EventDetails, error)
}

// RegistrationService registers the calling user as a participant of an event.
type RegistrationService interface {
	RegisterForEvent(ctx context.Context, eventID, userID string) (*Event, error)
}

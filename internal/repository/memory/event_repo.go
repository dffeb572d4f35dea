package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"eventhub/internal/domain"
	"github.com/google/uuid"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
	now    func() time.Time
}

func NewEventRepository() domain.EventRepository {
	return &eventRepository{
		events: make(map[string]*domain.Event),
		now:    time.Now,
	}
}

func cloneEvent(e *domain.Event) *domain.Event {
	cp := *e
	cp.Participants = slices.Clone(e.Participants)
	if cp.Participants == nil {
		cp.Participants = []string{}
	}
	return &cp
}

func (r *eventRepository) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	if e.Participants == nil {
		e.Participants = []string{}
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *eventRepository) List(_ context.Context) ([]*domain.Event, error) {
	r.mu.RLock()
	events := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, cloneEvent(e))
	}
	r.mu.RUnlock()
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *eventRepository) Update(_ context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !update.Empty() {
		update.Apply(e)
		e.UpdatedAt = r.now()
	}
	return cloneEvent(e), nil
}

func (r *eventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// AddParticipant checks and appends under the write lock.
func (r *eventRepository) AddParticipant(_ context.Context, eventID, userID string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.HasParticipant(userID) {
		return nil, domain.ErrAlreadyRegistered
	}
	e.Participants = append(e.Participants, userID)
	e.UpdatedAt = r.now()
	return cloneEvent(e), nil
}

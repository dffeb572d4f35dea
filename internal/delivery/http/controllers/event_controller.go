package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"github.com/google/uuid"
)

// EventsResponse is the success body of GET /events (200).
type EventsResponse struct {
	Message string                 `json:"message"`
	Events  []*domain.EventDetails `json:"events"`
}

// EventDetailsResponse carries one event with organizer and participants expanded.
type EventDetailsResponse struct {
	Message string               `json:"message"`
	Event   *domain.EventDetails `json:"event"`
}

// EventResponse carries one event with raw organizer and participant ids.
type EventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

type EventController struct {
	Logger        *slog.Logger
	Events        domain.EventService
	Directory     domain.DirectoryService
	Registrations domain.RegistrationService
}

func NewEventController(logger *slog.Logger, events domain.EventService, directory domain.DirectoryService, registrations domain.RegistrationService) *EventController {
	return &EventController{
		Logger:        logger,
		Events:        events,
		Directory:     directory,
		Registrations: registrations,
	}
}

func (c *EventController) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteInternalError(w, message, err)
}

// eventID returns the {id} path value. Ids that are not UUIDs cannot name an
// event, so they answer 404 here.
func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
		return "", false
	}
	return id.String(), true
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event with organizer and participants expanded to id, name and email.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventsResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Directory.ListEvents(r.Context())
	if err != nil {
		c.internalError(w, r, "Error fetching events", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventsResponse{Message: "Events fetched successfully", Events: events})
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailsResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := c.Directory.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.internalError(w, r, "Error fetching event", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventDetailsResponse{Message: "Event fetched successfully", Event: event})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Organizer only. The caller becomes the organizer; participants start empty.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventDetailsResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed or organizer not found"
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.CreateEvent(r.Context(), req.Input(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizerNotFound) {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Organizer not found")
			return
		}
		c.internalError(w, r, "Error creating event", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, EventDetailsResponse{Message: "Event created successfully", Event: event})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Organizer only. Only the provided fields change.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.UpdateEvent(r.Context(), id, req.Update())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.internalError(w, r, "Error updating event", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventResponse{Message: "Event updated successfully", Event: event})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Organizer only. Deletion is permanent.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	if err := c.Events.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.internalError(w, r, "Error deleting event", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.MessageResponse{Message: "Event deleted successfully"})
}

// RegisterForEvent godoc
// @Summary Register for an event
// @Description Adds the caller to the event's participants and sends a confirmation email in the background.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.ErrorResponse "already registered"
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "event or user not found"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{id}/register [post]
func (c *EventController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := c.Registrations.RegisterForEvent(r.Context(), id, claims.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			helpers.WriteJSONError(w, http.StatusBadRequest, "User already registered for this event")
		default:
			c.internalError(w, r, "Error registering for event", err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventResponse{Message: "User registered for event successfully", Event: event})
}

package controllers

import (
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// dateLayouts are the accepted formats for event dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// timeNow is the clock used by date validation.
var timeNow = time.Now

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CreateEventRequest is the request body for POST /events.
// Date is RFC 3339 or YYYY-MM-DD and must be in the future.
type CreateEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location,omitempty"`
}

// Validate implements Validator.
func (r *CreateEventRequest) Validate() []string {
	if errs := helpers.ValidateStruct(r); len(errs) > 0 {
		return errs
	}
	date, ok := parseDate(r.Date)
	if !ok {
		return []string{"Date must be a valid date"}
	}
	if !date.After(timeNow()) {
		return []string{"Date must be in the future"}
	}
	return nil
}

// Input converts a validated request into domain input.
func (r *CreateEventRequest) Input() domain.EventInput {
	date, _ := parseDate(r.Date)
	return domain.EventInput{
		Name:        r.Name,
		Description: r.Description,
		Date:        date,
		Location:    r.Location,
	}
}

// UpdateEventRequest is the request body for PATCH /events/{id}. Omitted or
// empty fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
}

func provided(s *string) bool {
	return s != nil && *s != ""
}

// Validate implements Validator.
func (r *UpdateEventRequest) Validate() []string {
	if !provided(r.Name) && !provided(r.Description) && !provided(r.Date) && !provided(r.Location) {
		return []string{"At least one field is required"}
	}
	if provided(r.Date) {
		if _, ok := parseDate(*r.Date); !ok {
			return []string{"Date must be a valid date"}
		}
	}
	return nil
}

// Update converts a validated request into a partial update.
func (r *UpdateEventRequest) Update() domain.EventUpdate {
	var u domain.EventUpdate
	if provided(r.Name) {
		u.Name = r.Name
	}
	if provided(r.Description) {
		u.Description = r.Description
	}
	if provided(r.Date) {
		date, _ := parseDate(*r.Date)
		u.Date = &date
	}
	if provided(r.Location) {
		u.Location = r.Location
	}
	return u
}

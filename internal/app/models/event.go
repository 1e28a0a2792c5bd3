package models

import (
	"time"

	"github.com/google/uuid"
)

// Event approval states set by the platform moderators
const (
	EventApprovalPending  = "pending"
	EventApprovalApproved = "approved"
	EventApprovalRejected = "rejected"
)

// Event is an occurrence an organizer publishes and exhibitors apply to
type Event struct {
	ID                  uuid.UUID  `json:"id"`
	OrganizerID         uuid.UUID  `json:"organizerId"`
	Name                string     `json:"eventName"`
	Description         string     `json:"eventDescription"`
	LeadText            string     `json:"leadText"`
	Genre               string     `json:"genre"`
	VenueName           string     `json:"venueName"`
	VenueAddress        string     `json:"venueAddress"`
	VenueCity           string     `json:"venueCity"`
	VenueTown           string     `json:"venueTown"`
	StartDate           time.Time  `json:"eventStartDate"`
	EndDate             time.Time  `json:"eventEndDate"`
	ApplicationEndDate  *time.Time `json:"applicationEndDate,omitempty"`
	ApprovalStatus      string     `json:"approvalStatus"`
	IsApplicationClosed bool       `json:"isApplicationClosed"`
	MainImageURL        string     `json:"mainImageUrl,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// IsApproved reports whether moderators published the event
func (e *Event) IsApproved() bool {
	return e.ApprovalStatus == EventApprovalApproved
}

// AcceptsApplications reports whether the event is open for new applications on day
func (e *Event) AcceptsApplications(day time.Time) bool {
	if e.IsApplicationClosed {
		return false
	}
	if e.ApplicationEndDate == nil {
		return true
	}
	return !truncateDay(day).After(truncateDay(*e.ApplicationEndDate))
}

// Summary returns the compact form embedded in application listings
func (e *Event) Summary() EventSummary {
	return EventSummary{
		ID:        e.ID,
		Name:      e.Name,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		VenueName: e.VenueName,
		VenueCity: e.VenueCity,
	}
}

// EventSummary is the part of an event shown next to an application
type EventSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"eventName"`
	StartDate time.Time `json:"eventStartDate"`
	EndDate   time.Time `json:"eventEndDate"`
	VenueName string    `json:"venueName"`
	VenueCity string    `json:"venueCity"`
}

// EventFilter narrows the exhibitor-facing event search
type EventFilter struct {
	Keyword     string
	Genre       string
	Prefecture  string
	City        string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	// Today is the reference day for the application deadline
	Today time.Time
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

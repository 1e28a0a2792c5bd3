package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the state of an exhibitor's application to an event
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// IsDecision reports whether s is a valid organizer decision
func (s ApplicationStatus) IsDecision() bool {
	return s.IsTerminal()
}

// Application tracks one exhibitor's request to take part in one event.
// There is at most one per (exhibitor, event) pair.
type Application struct {
	ID          uuid.UUID         `json:"id"`
	ExhibitorID uuid.UUID         `json:"exhibitorId"`
	EventID     uuid.UUID         `json:"eventId"`
	Status      ApplicationStatus `json:"applicationStatus"`
	AppliedAt   time.Time         `json:"appliedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ApplicationWithEvent is the exhibitor's view of their applications
type ApplicationWithEvent struct {
	Application
	Event EventSummary `json:"event"`
}

// ApplicationWithExhibitor is the organizer's view of applications to an event
type ApplicationWithExhibitor struct {
	Application
	Exhibitor ExhibitorContact `json:"exhibitor"`
}

// CloseResult is returned once an event stops accepting applications
type CloseResult struct {
	EventID          uuid.UUID `json:"eventId"`
	ApplicationCount int       `json:"applicationCount"`
	ExportURL        string    `json:"spreadsheetUrl"`
}

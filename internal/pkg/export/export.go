// Package export produces the closing export of an event's exhibitor contacts.
package export

import (
	"context"

	"github.com/google/uuid"
)

// Request identifies the event being closed and who should receive the export
type Request struct {
	EventID        uuid.UUID `json:"eventId"`
	OrganizerID    uuid.UUID `json:"organizerId"`
	EventName      string    `json:"eventName"`
	OrganizerEmail string    `json:"organizerEmail"`
}

// Result is the outcome of a successful export
type Result struct {
	ApplicationCount int    `json:"applicationCount"`
	SpreadsheetURL   string `json:"spreadsheetUrl"`
}

// Exporter writes the exhibitor contacts of an event somewhere the organizer can reach
type Exporter interface {
	Export(ctx context.Context, req Request) (*Result, error)
}

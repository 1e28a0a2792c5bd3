package dto

import (
	"time"

	"github.com/yigit/stallhub/internal/app/models"
)

// CreateEventRequest is the organizer's event form
type CreateEventRequest struct {
	Name               string     `json:"eventName" validate:"required,max=200"`
	Description        string     `json:"eventDescription"`
	LeadText           string     `json:"leadText" validate:"max=500"`
	Genre              string     `json:"genre" validate:"max=100"`
	VenueName          string     `json:"venueName" validate:"max=200"`
	VenueAddress       string     `json:"venueAddress"`
	VenueCity          string     `json:"venueCity" validate:"max=100"`
	VenueTown          string     `json:"venueTown" validate:"max=100"`
	StartDate          time.Time  `json:"eventStartDate" validate:"required"`
	EndDate            time.Time  `json:"eventEndDate" validate:"required,gtefield=StartDate"`
	ApplicationEndDate *time.Time `json:"applicationEndDate,omitempty"`
	MainImageURL       string     `json:"mainImageUrl,omitempty" validate:"omitempty,url"`
}

// ToModel copies the form into a new event
func (r CreateEventRequest) ToModel() *models.Event {
	return &models.Event{
		Name:               r.Name,
		Description:        r.Description,
		LeadText:           r.LeadText,
		Genre:              r.Genre,
		VenueName:          r.VenueName,
		VenueAddress:       r.VenueAddress,
		VenueCity:          r.VenueCity,
		VenueTown:          r.VenueTown,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		ApplicationEndDate: r.ApplicationEndDate,
		MainImageURL:       r.MainImageURL,
	}
}

// UpdateEventRequest replaces the organizer-editable fields of an event.
// Approval and the closed flag are not part of it.
type UpdateEventRequest CreateEventRequest

func (r UpdateEventRequest) ToModel() *models.Event {
	return CreateEventRequest(r).ToModel()
}

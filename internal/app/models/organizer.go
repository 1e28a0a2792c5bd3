package models

import (
	"time"

	"github.com/google/uuid"
)

// Organizer publishes events and decides on applications
type Organizer struct {
	ID uuid.UUID `json:"id"`
	AccountKeys
	OrganizerProfile
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrganizerProfile holds the fields an organizer provides at onboarding
type OrganizerProfile struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,tel"`
}

package dto

import "github.com/yigit/stallhub/internal/app/models"

// UpdateOrganizerRequest replaces the organizer's contact details. Unlike
// registration, the email is mandatory because application mail goes there.
type UpdateOrganizerRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,tel"`
}

func (r UpdateOrganizerRequest) Profile() models.OrganizerProfile {
	return models.OrganizerProfile{Name: r.Name, Email: r.Email, PhoneNumber: r.PhoneNumber}
}

// MeResponse tells a client whether its session is registered for the portal
type MeResponse struct {
	Registered bool        `json:"registered"`
	Role       models.Role `json:"role"`
	Profile    interface{} `json:"profile,omitempty"`
}

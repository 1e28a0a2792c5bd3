package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what a notification is about
type NotificationType string

const (
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationApproved NotificationType = "application_approved"
	NotificationApplicationRejected NotificationType = "application_rejected"
)

// Recipient addresses notifications to one identity key within one role
type Recipient struct {
	UserID   string `json:"userId"`
	UserType Role   `json:"userType"`
}

// Notification is a side-effect record shown to its recipient
type Notification struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               string           `json:"userId"`
	UserType             Role             `json:"userType"`
	Type                 NotificationType `json:"notificationType"`
	Title                string           `json:"title"`
	Message              string           `json:"message"`
	RelatedEventID       *uuid.UUID       `json:"relatedEventId,omitempty"`
	RelatedApplicationID *uuid.UUID       `json:"relatedApplicationId,omitempty"`
	IsRead               bool             `json:"isRead"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Recipient returns who the notification belongs to
func (n *Notification) Recipient() Recipient {
	return Recipient{UserID: n.UserID, UserType: n.UserType}
}

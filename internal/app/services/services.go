package services

// Services defined in this package:
// - ApplicationService: apply, decide and close, with notification fan-out
// - NotificationService: stores in-app notifications and pushes them over the websocket hub
// - EventService: organizer event management and the exhibitor event search
// - ExhibitorService: exhibitor registration, profile and document uploads
// - OrganizerService: organizer registration and profile
//
// Persistence goes through the Store interfaces in stores.go, which the
// repositories package implements.

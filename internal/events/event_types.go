package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventProfileUpdated EventType = "profile_updated"
	EventPhotoUploaded  EventType = "photo_uploaded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Email string `json:"email"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	Name string `json:"name"`
}

// PhotoUploadedPayload payload.
type PhotoUploadedPayload struct {
	PhotoURL string `json:"photo_url"`
	Bytes    int64  `json:"bytes"`
}

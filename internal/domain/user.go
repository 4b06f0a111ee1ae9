package domain

import "time"

// Role labels what a user may do. Stored and signed into tokens as an
// opaque string; membership checks compare whole labels, never substrings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

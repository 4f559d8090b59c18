package user

import "time"

type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"

	// RoleMarker is carried by kiosk tokens issued after a PIN login.
	// It is never stored on a user row.
	RoleMarker Role = "marker"
)

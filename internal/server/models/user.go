// Package models defines the data models persisted by the server and exchanged
// with its HTTP clients.
package models

import "time"

// User is an operator account. Emails are stored trimmed and lowercased.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Profile is one-to-one with User. SignatureKey and ParapheKey are blob
// store keys; empty means no image was uploaded.
type Profile struct {
	UserID        string
	RedacteurName string
	Matricule     string
	Service       string
	SignatureKey  string
	ParapheKey    string
	UpdatedAt     time.Time
}

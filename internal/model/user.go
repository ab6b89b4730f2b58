// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// Email is the stable identity used as the token subject claim.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

package model

import "time"

// AuthToken represents an opaque bearer token tied to a user.
// Exactly one token exists per user; obtaining a new token replaces it.
type AuthToken struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TokenHash   string    `json:"-"` // Never serialize
	TokenPrefix string    `json:"token_prefix"`
	CreatedAt   time.Time `json:"created_at"`
}

package model

import "time"

// Tag represents a user-scoped recipe label.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// String returns the tag's name.
func (t *Tag) String() string {
	return t.Name
}

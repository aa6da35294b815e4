package model

import "time"

// Ingredient represents a user-scoped recipe component.
// Same shape as Tag; kept separate because the two are independent
// vocabularies with independent recipe associations.
type Ingredient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// String returns the ingredient's name.
func (i *Ingredient) String() string {
	return i.Name
}

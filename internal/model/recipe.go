package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe represents a recipe owned by a single user.
// Tags and Ingredients are populated on detail lookups; list queries
// carry only the scalar fields.
type Recipe struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Tags        []*Tag          `json:"tags,omitempty"`
	Ingredients []*Ingredient   `json:"ingredients,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// String returns the recipe's title.
func (r *Recipe) String() string {
	return r.Title
}

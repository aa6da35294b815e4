package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/model"
)

// CreateRecipeRequest represents the request body for creating a recipe.
// Nested tags and ingredients are referenced by name; unknown names are
// created under the authenticated user.
type CreateRecipeRequest struct {
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Link        string          `json:"link,omitempty"`
	Tags        []LabelRef      `json:"tags,omitempty"`
	Ingredients []LabelRef      `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest represents a partial recipe update. A present
// tags or ingredients array replaces the recipe's label set; an empty
// array clears it.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title,omitempty"`
	TimeMinutes *int             `json:"time_minutes,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Link        *string          `json:"link,omitempty"`
	Tags        *[]LabelRef      `json:"tags,omitempty"`
	Ingredients *[]LabelRef      `json:"ingredients,omitempty"`
}

// RecipeListItem represents a recipe in list responses. Lists carry
// only scalar fields; description and labels appear on detail lookups.
type RecipeListItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecipeListResponse represents a list of recipes, newest first.
type RecipeListResponse struct {
	Data  []RecipeListItem `json:"data"`
	Count int              `json:"count"`
}

// RecipeResponse represents a full recipe in detail responses.
type RecipeResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Tags        []LabelResponse `json:"tags"`
	Ingredients []LabelResponse `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LabelNames extracts the name list from nested label references.
func LabelNames(refs []LabelRef) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}

// ToRecipeResponse converts a Recipe model to RecipeResponse DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	tags := make([]LabelResponse, len(recipe.Tags))
	for i, t := range recipe.Tags {
		tags[i] = ToTagResponse(t)
	}
	ingredients := make([]LabelResponse, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredients[i] = ToIngredientResponse(ing)
	}

	return &RecipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Description: recipe.Description,
		Link:        recipe.Link,
		Tags:        tags,
		Ingredients: ingredients,
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
}

// ToRecipeListResponse converts recipes to a list response.
func ToRecipeListResponse(recipes []*model.Recipe) *RecipeListResponse {
	data := make([]RecipeListItem, len(recipes))
	for i, r := range recipes {
		data[i] = RecipeListItem{
			ID:          r.ID,
			Title:       r.Title,
			TimeMinutes: r.TimeMinutes,
			Price:       r.Price,
			Link:        r.Link,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return &RecipeListResponse{Data: data, Count: len(data)}
}

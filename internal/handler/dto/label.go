package dto

import (
	"github.com/recipebox/recipebox/internal/model"
)

// LabelRequest represents the request body for creating or renaming a
// tag or ingredient.
type LabelRequest struct {
	Name string `json:"name"`
}

// LabelRef references a label by name inside a nested recipe payload.
// Unknown names are created on the fly.
type LabelRef struct {
	Name string `json:"name"`
}

// LabelResponse represents a tag or ingredient in API responses.
type LabelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelListResponse represents a list of tags or ingredients.
type LabelListResponse struct {
	Data  []LabelResponse `json:"data"`
	Count int             `json:"count"`
}

// ToTagResponse converts a Tag model to LabelResponse DTO.
func ToTagResponse(tag *model.Tag) LabelResponse {
	return LabelResponse{ID: tag.ID, Name: tag.Name}
}

// ToIngredientResponse converts an Ingredient model to LabelResponse DTO.
func ToIngredientResponse(ingredient *model.Ingredient) LabelResponse {
	return LabelResponse{ID: ingredient.ID, Name: ingredient.Name}
}

// ToTagListResponse converts tags to a list response.
func ToTagListResponse(tags []*model.Tag) *LabelListResponse {
	data := make([]LabelResponse, len(tags))
	for i, t := range tags {
		data[i] = ToTagResponse(t)
	}
	return &LabelListResponse{Data: data, Count: len(data)}
}

// ToIngredientListResponse converts ingredients to a list response.
func ToIngredientListResponse(ingredients []*model.Ingredient) *LabelListResponse {
	data := make([]LabelResponse, len(ingredients))
	for i, ing := range ingredients {
		data[i] = ToIngredientResponse(ing)
	}
	return &LabelListResponse{Data: data, Count: len(data)}
}

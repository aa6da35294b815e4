package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/recipebox/recipebox/internal/model"
)

// Common errors for ingredient repository operations.
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient name already exists for user")
)

// CreateIngredient inserts a new ingredient into the database.
func (r *Repository) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		ingredient.ID,
		ingredient.UserID,
		ingredient.Name,
		ingredient.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrIngredientExists
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	return nil
}

// GetIngredientByID retrieves an ingredient owned by the given user.
func (r *Repository) GetIngredientByID(ctx context.Context, userID, id string) (*model.Ingredient, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM ingredients
		WHERE id = $1 AND user_id = $2
	`

	var ingredient model.Ingredient
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&ingredient.ID,
		&ingredient.UserID,
		&ingredient.Name,
		&ingredient.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}

	return &ingredient, nil
}

// GetIngredientByName retrieves an ingredient by its user-scoped name.
func (r *Repository) GetIngredientByName(ctx context.Context, userID, name string) (*model.Ingredient, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM ingredients
		WHERE user_id = $1 AND name = $2
	`

	var ingredient model.Ingredient
	err := r.pool.QueryRow(ctx, query, userID, name).Scan(
		&ingredient.ID,
		&ingredient.UserID,
		&ingredient.Name,
		&ingredient.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by name: %w", err)
	}

	return &ingredient, nil
}

// ListIngredients retrieves the user's ingredients ordered by name descending.
// With assignedOnly, only ingredients linked to at least one recipe are
// returned, deduplicated across recipes.
func (r *Repository) ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]*model.Ingredient, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM ingredients
		WHERE user_id = $1
		ORDER BY name DESC
	`
	if assignedOnly {
		query = `
			SELECT DISTINCT i.id, i.user_id, i.name, i.created_at
			FROM ingredients i
			JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
			WHERE i.user_id = $1
			ORDER BY i.name DESC
		`
	}

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	return collectIngredients(rows)
}

// UpdateIngredient updates an ingredient's name.
func (r *Repository) UpdateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	query := `
		UPDATE ingredients
		SET name = $3
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, ingredient.ID, ingredient.UserID, ingredient.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIngredientExists
		}
		return fmt.Errorf("failed to update ingredient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}

	return nil
}

// DeleteIngredient removes an ingredient and its recipe associations.
func (r *Repository) DeleteIngredient(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}

	return nil
}

// collectIngredients drains rows into Ingredient models.
func collectIngredients(rows pgx.Rows) ([]*model.Ingredient, error) {
	var ingredients []*model.Ingredient
	for rows.Next() {
		var ingredient model.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.UserID, &ingredient.Name, &ingredient.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, &ingredient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

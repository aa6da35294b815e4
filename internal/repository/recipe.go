package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/recipebox/recipebox/internal/model"
)

// ErrRecipeNotFound indicates no recipe matched the query.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeFilter defines filters for listing recipes.
// TagIDs and IngredientIDs restrict the list to recipes linked to at
// least one of the given labels.
type RecipeFilter struct {
	UserID        string
	TagIDs        []string
	IngredientIDs []string
}

// CreateRecipe inserts a new recipe into the database.
// Label associations are managed separately via SetRecipeTags and
// SetRecipeIngredients.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (id, user_id, title, time_minutes, price, description, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Description,
		recipe.Link,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a recipe owned by the given user.
// Recipes belonging to other users are reported as not found.
func (r *Repository) GetRecipeByID(ctx context.Context, userID, id string) (*model.Recipe, error) {
	query := `
		SELECT id, user_id, title, time_minutes, price, description, link, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND user_id = $2
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

// ListRecipes retrieves the user's recipes, newest first.
func (r *Repository) ListRecipes(ctx context.Context, filter RecipeFilter) ([]*model.Recipe, error) {
	query := `
		SELECT id, user_id, title, time_minutes, price, description, link, created_at, updated_at
		FROM recipes
		WHERE user_id = $1
	`
	args := []any{filter.UserID}
	argIndex := 2

	if len(filter.TagIDs) > 0 {
		query += fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id = ANY($%d))",
			argIndex,
		)
		args = append(args, pq.Array(filter.TagIDs))
		argIndex++
	}

	if len(filter.IngredientIDs) > 0 {
		query += fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id = ANY($%d))",
			argIndex,
		)
		args = append(args, pq.Array(filter.IngredientIDs))
		argIndex++
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// UpdateRecipe updates a recipe's scalar fields.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		UPDATE recipes
		SET title = $3, time_minutes = $4, price = $5, description = $6, link = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Description,
		recipe.Link,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// DeleteRecipe removes a recipe and its label associations.
func (r *Repository) DeleteRecipe(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// AddRecipeTags links tags to a recipe. Existing links are kept.
func (r *Repository) AddRecipeTags(ctx context.Context, recipeID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, tagID,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}
	return nil
}

// SetRecipeTags replaces a recipe's tag associations.
func (r *Repository) SetRecipeTags(ctx context.Context, recipeID string, tagIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear tag links: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, tagID,
		); err != nil {
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tag links: %w", err)
	}

	return nil
}

// AddRecipeIngredients links ingredients to a recipe. Existing links are kept.
func (r *Repository) AddRecipeIngredients(ctx context.Context, recipeID string, ingredientIDs []string) error {
	for _, ingredientID := range ingredientIDs {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, ingredientID,
		)
		if err != nil {
			return fmt.Errorf("failed to link ingredient: %w", err)
		}
	}
	return nil
}

// SetRecipeIngredients replaces a recipe's ingredient associations.
func (r *Repository) SetRecipeIngredients(ctx context.Context, recipeID string, ingredientIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear ingredient links: %w", err)
	}

	for _, ingredientID := range ingredientIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recipeID, ingredientID,
		); err != nil {
			return fmt.Errorf("failed to link ingredient: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ingredient links: %w", err)
	}

	return nil
}

// GetRecipeTags retrieves the tags linked to a recipe, ordered by name descending.
func (r *Repository) GetRecipeTags(ctx context.Context, recipeID string) ([]*model.Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.created_at
		FROM tags t
		JOIN recipe_tags rt ON rt.tag_id = t.id
		WHERE rt.recipe_id = $1
		ORDER BY t.name DESC
	`

	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe tags: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// GetRecipeIngredients retrieves the ingredients linked to a recipe, ordered by name descending.
func (r *Repository) GetRecipeIngredients(ctx context.Context, recipeID string) ([]*model.Ingredient, error) {
	query := `
		SELECT i.id, i.user_id, i.name, i.created_at
		FROM ingredients i
		JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = $1
		ORDER BY i.name DESC
	`

	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe ingredients: %w", err)
	}
	defer rows.Close()

	return collectIngredients(rows)
}

// scanRecipe scans a single row into a Recipe model.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	err := row.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.TimeMinutes,
		&recipe.Price,
		&recipe.Description,
		&recipe.Link,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

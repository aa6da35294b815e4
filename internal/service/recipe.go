package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// Recipe service errors.
var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidDuration = errors.New("time_minutes must not be negative")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

const maxTitleLength = 255

// RecipeService handles recipe business logic, including nested tag
// and ingredient resolution.
type RecipeService struct {
	repo    *repository.Repository
	labels  *LabelService
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.Repository, labels *LabelService, logger *slog.Logger, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{
		repo:    repo,
		labels:  labels,
		logger:  logger,
		metrics: recorder,
	}
}

// CreateRecipeInput defines input for creating a recipe. Tags and
// Ingredients carry label names; unknown names are created on the fly.
type CreateRecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []string
	Ingredients []string
}

// ListRecipesInput defines list filters. TagIDs and IngredientIDs
// restrict the result to recipes carrying any of the given labels.
type ListRecipesInput struct {
	TagIDs        []string
	IngredientIDs []string
}

func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLength {
		return "", ErrTitleRequired
	}
	if timeMinutes < 0 {
		return "", ErrInvalidDuration
	}
	if price.IsNegative() {
		return "", ErrInvalidPrice
	}
	return title, nil
}

// validateLabelNames rejects the request before any row is written when
// a nested label payload carries an unusable name. Resolution after the
// insert can then only fail on infrastructure errors.
func validateLabelNames(names []string) error {
	for _, name := range names {
		if _, err := validateLabelName(name); err != nil {
			return err
		}
	}
	return nil
}

// CreateRecipe creates a recipe owned by the user, resolving nested
// label names to owned rows. A validation failure, including a bad
// nested label name, leaves no recipe row behind.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID string, input CreateRecipeInput) (*model.Recipe, error) {
	title, err := validateRecipeFields(input.Title, input.TimeMinutes, input.Price)
	if err != nil {
		return nil, err
	}
	if err := validateLabelNames(input.Tags); err != nil {
		return nil, err
	}
	if err := validateLabelNames(input.Ingredients); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Title:       title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Description: input.Description,
		Link:        input.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	if err := s.attachLabels(ctx, userID, recipe, input.Tags, input.Ingredients); err != nil {
		return nil, err
	}

	s.metrics.IncRecipeCreated()
	s.logger.Info("recipe created",
		slog.String("recipe_id", recipe.ID),
		slog.String("user_id", userID),
	)

	return recipe, nil
}

// attachLabels resolves label names and links them to the recipe.
func (s *RecipeService) attachLabels(ctx context.Context, userID string, recipe *model.Recipe, tagNames, ingredientNames []string) error {
	tags, err := s.resolveTags(ctx, userID, tagNames)
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		ids := tagIDs(tags)
		if err := s.repo.AddRecipeTags(ctx, recipe.ID, ids); err != nil {
			return fmt.Errorf("attaching tags: %w", err)
		}
	}
	recipe.Tags = tags

	ingredients, err := s.resolveIngredients(ctx, userID, ingredientNames)
	if err != nil {
		return err
	}
	if len(ingredients) > 0 {
		ids := ingredientIDs(ingredients)
		if err := s.repo.AddRecipeIngredients(ctx, recipe.ID, ids); err != nil {
			return fmt.Errorf("attaching ingredients: %w", err)
		}
	}
	recipe.Ingredients = ingredients

	return nil
}

func (s *RecipeService) resolveTags(ctx context.Context, userID string, names []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		tag, err := s.labels.getOrCreateTag(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, userID string, names []string) ([]*model.Ingredient, error) {
	ingredients := make([]*model.Ingredient, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		ingredient, err := s.labels.getOrCreateIngredient(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if seen[ingredient.ID] {
			continue
		}
		seen[ingredient.ID] = true
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

func tagIDs(tags []*model.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func ingredientIDs(ingredients []*model.Ingredient) []string {
	ids := make([]string, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// GetRecipe returns a recipe with its tags and ingredients loaded.
// Recipes owned by other users read as not found.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id string) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("fetching recipe: %w", err)
	}

	if err := s.loadLabels(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// loadLabels populates a recipe's tag and ingredient slices.
func (s *RecipeService) loadLabels(ctx context.Context, recipe *model.Recipe) error {
	tags, err := s.repo.GetRecipeTags(ctx, recipe.ID)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	recipe.Tags = tags

	ingredients, err := s.repo.GetRecipeIngredients(ctx, recipe.ID)
	if err != nil {
		return fmt.Errorf("loading ingredients: %w", err)
	}
	recipe.Ingredients = ingredients

	return nil
}

// ListRecipes returns the user's recipes, newest first, optionally
// filtered by tag and ingredient IDs. List results carry only scalar
// fields; labels are loaded on detail lookups.
func (s *RecipeService) ListRecipes(ctx context.Context, userID string, input ListRecipesInput) ([]*model.Recipe, error) {
	recipes, err := s.repo.ListRecipes(ctx, repository.RecipeFilter{
		UserID:        userID,
		TagIDs:        input.TagIDs,
		IngredientIDs: input.IngredientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipeInput defines a partial recipe update. Nil fields are
// left unchanged; a present Tags or Ingredients slice replaces the
// recipe's label set, an empty slice clears it.
type UpdateRecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// UpdateRecipe applies a partial update to a recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id string, input UpdateRecipeInput) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("fetching recipe: %w", err)
	}

	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.TimeMinutes != nil {
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}
	if input.Description != nil {
		recipe.Description = *input.Description
	}
	if input.Link != nil {
		recipe.Link = *input.Link
	}

	title, err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price)
	if err != nil {
		return nil, err
	}
	if input.Tags != nil {
		if err := validateLabelNames(*input.Tags); err != nil {
			return nil, err
		}
	}
	if input.Ingredients != nil {
		if err := validateLabelNames(*input.Ingredients); err != nil {
			return nil, err
		}
	}
	recipe.Title = title
	recipe.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("updating recipe: %w", err)
	}

	if input.Tags != nil {
		tags, err := s.resolveTags(ctx, userID, *input.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetRecipeTags(ctx, recipe.ID, tagIDs(tags)); err != nil {
			return nil, fmt.Errorf("replacing tags: %w", err)
		}
	}
	if input.Ingredients != nil {
		ingredients, err := s.resolveIngredients(ctx, userID, *input.Ingredients)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetRecipeIngredients(ctx, recipe.ID, ingredientIDs(ingredients)); err != nil {
			return nil, fmt.Errorf("replacing ingredients: %w", err)
		}
	}

	if err := s.loadLabels(ctx, recipe); err != nil {
		return nil, err
	}

	s.metrics.IncRecipeUpdated()
	return recipe, nil
}

// DeleteRecipe removes a recipe. Labels survive; only the associations
// are dropped, by cascade.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteRecipe(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("deleting recipe: %w", err)
	}

	s.metrics.IncRecipeDeleted()
	s.logger.Info("recipe deleted",
		slog.String("recipe_id", id),
		slog.String("user_id", userID),
	)

	return nil
}

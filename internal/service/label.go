package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// Label service errors.
var (
	ErrNameRequired       = errors.New("name is required")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTagExists          = errors.New("tag with this name already exists")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient with this name already exists")
)

const maxLabelNameLength = 255

// LabelService handles tag and ingredient business logic. Both label
// kinds share the same shape and rules; only the storage tables differ.
type LabelService struct {
	repo    *repository.Repository
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewLabelService creates a new LabelService.
func NewLabelService(repo *repository.Repository, logger *slog.Logger, recorder metrics.Recorder) *LabelService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LabelService{
		repo:    repo,
		logger:  logger,
		metrics: recorder,
	}
}

func validateLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(name) > maxLabelNameLength {
		return "", ErrNameRequired
	}
	return name, nil
}

// ListTags returns the user's tags ordered by name descending. With
// assignedOnly set, only tags attached to at least one recipe are
// returned, each at most once.
func (s *LabelService) ListTags(ctx context.Context, userID string, assignedOnly bool) ([]*model.Tag, error) {
	tags, err := s.repo.ListTags(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a new tag owned by the user.
func (s *LabelService) CreateTag(ctx context.Context, userID, name string) (*model.Tag, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return nil, ErrTagExists
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.metrics.IncLabelCreated("tag")
	return tag, nil
}

// UpdateTag renames a tag. Only the owner's tags are visible, so a
// foreign ID reads as not found.
func (s *LabelService) UpdateTag(ctx context.Context, userID, id, name string) (*model.Tag, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.repo.GetTagByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("fetching tag: %w", err)
	}

	tag.Name = name
	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return nil, ErrTagExists
		}
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("updating tag: %w", err)
	}

	return tag, nil
}

// DeleteTag removes a tag. Recipe associations are removed by cascade.
func (s *LabelService) DeleteTag(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteTag(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("deleting tag: %w", err)
	}

	s.metrics.IncLabelDeleted("tag")
	return nil
}

// getOrCreateTag resolves a tag by name, creating it if it does not
// exist yet. Used when recipes carry nested tag payloads.
func (s *LabelService) getOrCreateTag(ctx context.Context, userID, name string) (*model.Tag, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.repo.GetTagByName(ctx, userID, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, repository.ErrTagNotFound) {
		return nil, fmt.Errorf("fetching tag: %w", err)
	}

	tag = &model.Tag{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		// Concurrent create with the same name: fall back to the winner.
		if errors.Is(err, repository.ErrTagExists) {
			return s.repo.GetTagByName(ctx, userID, name)
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.metrics.IncLabelCreated("tag")
	return tag, nil
}

// ListIngredients returns the user's ingredients ordered by name
// descending, optionally restricted to those assigned to a recipe.
func (s *LabelService) ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]*model.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("listing ingredients: %w", err)
	}
	return ingredients, nil
}

// CreateIngredient creates a new ingredient owned by the user.
func (s *LabelService) CreateIngredient(ctx context.Context, userID, name string) (*model.Ingredient, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	ingredient := &model.Ingredient{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrIngredientExists) {
			return nil, ErrIngredientExists
		}
		return nil, fmt.Errorf("creating ingredient: %w", err)
	}

	s.metrics.IncLabelCreated("ingredient")
	return ingredient, nil
}

// UpdateIngredient renames an ingredient.
func (s *LabelService) UpdateIngredient(ctx context.Context, userID, id, name string) (*model.Ingredient, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.repo.GetIngredientByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("fetching ingredient: %w", err)
	}

	ingredient.Name = name
	if err := s.repo.UpdateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrIngredientExists) {
			return nil, ErrIngredientExists
		}
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("updating ingredient: %w", err)
	}

	return ingredient, nil
}

// DeleteIngredient removes an ingredient and its recipe associations.
func (s *LabelService) DeleteIngredient(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteIngredient(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return ErrIngredientNotFound
		}
		return fmt.Errorf("deleting ingredient: %w", err)
	}

	s.metrics.IncLabelDeleted("ingredient")
	return nil
}

// getOrCreateIngredient resolves an ingredient by name, creating it if
// needed.
func (s *LabelService) getOrCreateIngredient(ctx context.Context, userID, name string) (*model.Ingredient, error) {
	name, err := validateLabelName(name)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.repo.GetIngredientByName(ctx, userID, name)
	if err == nil {
		return ingredient, nil
	}
	if !errors.Is(err, repository.ErrIngredientNotFound) {
		return nil, fmt.Errorf("fetching ingredient: %w", err)
	}

	ingredient = &model.Ingredient{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrIngredientExists) {
			return s.repo.GetIngredientByName(ctx, userID, name)
		}
		return nil, fmt.Errorf("creating ingredient: %w", err)
	}

	s.metrics.IncLabelCreated("ingredient")
	return ingredient, nil
}

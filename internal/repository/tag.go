package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/recipebox/recipebox/internal/model"
)

// Common errors for tag repository operations.
var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("tag name already exists for user")
)

// CreateTag inserts a new tag into the database.
func (r *Repository) CreateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		INSERT INTO tags (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		tag.ID,
		tag.UserID,
		tag.Name,
		tag.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagExists
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// GetTagByID retrieves a tag owned by the given user.
func (r *Repository) GetTagByID(ctx context.Context, userID, id string) (*model.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE id = $1 AND user_id = $2
	`

	var tag model.Tag
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag by ID: %w", err)
	}

	return &tag, nil
}

// GetTagByName retrieves a tag by its user-scoped name.
func (r *Repository) GetTagByName(ctx context.Context, userID, name string) (*model.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1 AND name = $2
	`

	var tag model.Tag
	err := r.pool.QueryRow(ctx, query, userID, name).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag by name: %w", err)
	}

	return &tag, nil
}

// ListTags retrieves the user's tags ordered by name descending.
// With assignedOnly, only tags linked to at least one recipe are
// returned, deduplicated across recipes.
func (r *Repository) ListTags(ctx context.Context, userID string, assignedOnly bool) ([]*model.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name DESC
	`
	if assignedOnly {
		query = `
			SELECT DISTINCT t.id, t.user_id, t.name, t.created_at
			FROM tags t
			JOIN recipe_tags rt ON rt.tag_id = t.id
			WHERE t.user_id = $1
			ORDER BY t.name DESC
		`
	}

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// UpdateTag updates a tag's name.
func (r *Repository) UpdateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		UPDATE tags
		SET name = $3
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, tag.ID, tag.UserID, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagExists
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	return nil
}

// DeleteTag removes a tag and its recipe associations.
func (r *Repository) DeleteTag(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	return nil
}

// collectTags drains rows into Tag models.
func collectTags(rows pgx.Rows) ([]*model.Tag, error) {
	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

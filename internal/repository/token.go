package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/recipebox/recipebox/internal/model"
)

// ErrTokenNotFound indicates no token row matched the query.
var ErrTokenNotFound = errors.New("token not found")

// ReplaceToken deletes any existing token for the user and inserts the
// new one in a single transaction, keeping the one-token-per-user
// invariant under concurrent logins.
func (r *Repository) ReplaceToken(ctx context.Context, token *model.AuthToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, token.UserID); err != nil {
		return fmt.Errorf("failed to delete previous token: %w", err)
	}

	query := `
		INSERT INTO auth_tokens (id, user_id, token_hash, token_prefix, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.TokenPrefix,
		token.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit token replacement: %w", err)
	}

	return nil
}

// GetTokensByPrefix retrieves all tokens matching a prefix.
// Used during authentication to find candidate tokens for verification.
func (r *Repository) GetTokensByPrefix(ctx context.Context, prefix string) ([]*model.AuthToken, error) {
	query := `
		SELECT id, user_id, token_hash, token_prefix, created_at
		FROM auth_tokens
		WHERE token_prefix = $1
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens by prefix: %w", err)
	}
	defer rows.Close()

	var tokens []*model.AuthToken
	for rows.Next() {
		var token model.AuthToken
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.TokenHash,
			&token.TokenPrefix,
			&token.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}

	return tokens, nil
}

// GetTokenByUserID retrieves the user's current token, if any.
func (r *Repository) GetTokenByUserID(ctx context.Context, userID string) (*model.AuthToken, error) {
	query := `
		SELECT id, user_id, token_hash, token_prefix, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`

	var token model.AuthToken
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.TokenPrefix,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token by user: %w", err)
	}

	return &token, nil
}

// DeleteTokensByUserID removes the user's token, if any.
func (r *Repository) DeleteTokensByUserID(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

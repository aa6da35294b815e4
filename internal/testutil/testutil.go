package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// applyMigration executes a single migration file against the pool.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, filename string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// ResetAllSchemas drops and recreates every table. Tokens and recipes
// reference users, so downs run child-first and ups parent-first.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	downs := []string{
		"000003_recipes.down.sql",
		"000002_auth_tokens.down.sql",
		"000001_users.down.sql",
	}
	ups := []string{
		"000001_users.up.sql",
		"000002_auth_tokens.up.sql",
		"000003_recipes.up.sql",
	}

	for _, f := range downs {
		if err := applyMigration(ctx, pool, f); err != nil {
			return err
		}
	}
	for _, f := range ups {
		if err := applyMigration(ctx, pool, f); err != nil {
			return err
		}
	}
	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
// Cascades remove dependent tokens and recipes.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return ResetAllSchemas(ctx, pool)
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// UniqueID returns an identifier unique within a test run.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// NewTestUser creates a test user with sensible defaults. The stored
// hash corresponds to no real password; use the auth package to set a
// verifiable one when the test needs it.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           UniqueID("user"),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$dGVzdHNhbHQwMTIzNDU2Nw$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		CreatedAt:    now,
	}
}

// NewTestRecipe creates a test recipe owned by the given user.
func NewTestRecipe(t testing.TB, userID, title string) *model.Recipe {
	t.Helper()
	now := time.Now().UTC()
	return &model.Recipe{
		ID:          UniqueID("recipe"),
		UserID:      userID,
		Title:       title,
		TimeMinutes: 10,
		Price:       decimal.NewFromFloat(5.50),
		Description: "Test description",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestTag creates a test tag owned by the given user.
func NewTestTag(t testing.TB, userID, name string) *model.Tag {
	t.Helper()
	return &model.Tag{
		ID:        UniqueID("tag"),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestIngredient creates a test ingredient owned by the given user.
func NewTestIngredient(t testing.TB, userID, name string) *model.Ingredient {
	t.Helper()
	return &model.Ingredient{
		ID:        UniqueID("ingredient"),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	return ctx, repo
}

func newTestToken(userID, prefix string) *model.AuthToken {
	return &model.AuthToken{
		ID:          testutil.UniqueID("token"),
		UserID:      userID,
		TokenHash:   "$argon2id$v=19$m=65536,t=3,p=4$dGVzdHNhbHQwMTIzNDU2Nw$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		TokenPrefix: prefix,
	}
}

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, "create@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Email != "create@example.com" {
		t.Errorf("Email mismatch: got %q", retrieved.Email)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byEmail, err := repo.GetUserByEmail(ctx, "create@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", byEmail.ID, user.ID)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u1 := testutil.NewTestUser(t, "dup@example.com")
	u2 := testutil.NewTestUser(t, "dup@example.com")

	if err := repo.CreateUser(ctx, u1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, u2)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetUserByID(ctx, "nonexistent"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_Update(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, "update@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user.Name = "Renamed"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Name != "Renamed" {
		t.Errorf("Name mismatch: got %q", retrieved.Name)
	}
}

func TestIntegrationTokenRepository_ReplaceToken(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, "token@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	first := newTestToken(user.ID, "aaaaaa")
	if err := repo.ReplaceToken(ctx, first); err != nil {
		t.Fatalf("ReplaceToken (first) failed: %v", err)
	}

	// A second token replaces the first; a user holds one token at a time.
	second := newTestToken(user.ID, "bbbbbb")
	if err := repo.ReplaceToken(ctx, second); err != nil {
		t.Fatalf("ReplaceToken (second) failed: %v", err)
	}

	current, err := repo.GetTokenByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetTokenByUserID failed: %v", err)
	}
	if current.ID != second.ID {
		t.Errorf("expected token %q to be current, got %q", second.ID, current.ID)
	}

	oldCandidates, err := repo.GetTokensByPrefix(ctx, "aaaaaa")
	if err != nil {
		t.Fatalf("GetTokensByPrefix failed: %v", err)
	}
	if len(oldCandidates) != 0 {
		t.Errorf("expected old token to be gone, found %d", len(oldCandidates))
	}
}

func TestIntegrationUserRepository_DeleteCascades(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, "cascade@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.ReplaceToken(ctx, newTestToken(user.ID, "cccccc")); err != nil {
		t.Fatalf("ReplaceToken failed: %v", err)
	}

	recipe := testutil.NewTestRecipe(t, user.ID, "Cascade check")
	if err := repo.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	if err := repo.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := repo.GetTokenByUserID(ctx, user.ID); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected token to be cascaded away, got: %v", err)
	}
	if _, err := repo.GetRecipeByID(ctx, user.ID, recipe.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected recipe to be cascaded away, got: %v", err)
	}
}

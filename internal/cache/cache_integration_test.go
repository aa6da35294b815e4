//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}

func TestIntegrationAuthContextCache(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	authCtx := &model.AuthContext{
		TokenID: "t1",
		UserID:  "u1",
		Email:   "cache@example.com",
		IsStaff: true,
	}

	if err := c.SetAuthContext(ctx, "cache-key-1", authCtx); err != nil {
		t.Fatalf("SetAuthContext failed: %v", err)
	}

	got, err := c.GetAuthContext(ctx, "cache-key-1")
	if err != nil {
		t.Fatalf("GetAuthContext failed: %v", err)
	}
	if got == nil || got.UserID != "u1" || !got.IsStaff {
		t.Errorf("unexpected cached context: %+v", got)
	}

	// A miss returns nil with no error.
	missing, err := c.GetAuthContext(ctx, "no-such-key")
	if err != nil {
		t.Fatalf("GetAuthContext (miss) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil on cache miss, got %+v", missing)
	}

	if err := c.DeleteAuthContext(ctx, "cache-key-1"); err != nil {
		t.Fatalf("DeleteAuthContext failed: %v", err)
	}
	gone, err := c.GetAuthContext(ctx, "cache-key-1")
	if err != nil {
		t.Fatalf("GetAuthContext (after delete) failed: %v", err)
	}
	if gone != nil {
		t.Error("expected context to be deleted")
	}
}

func TestIntegrationUserRateLimit(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	const burst = 3

	// The bucket starts full; the burst is consumed one token per call.
	for i := 0; i < burst; i++ {
		result, err := c.CheckUserRateLimit(ctx, "rl-user", 60, burst)
		if err != nil {
			t.Fatalf("CheckUserRateLimit failed: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	result, err := c.CheckUserRateLimit(ctx, "rl-user", 60, burst)
	if err != nil {
		t.Fatalf("CheckUserRateLimit failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected request beyond burst to be denied")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %s", result.RetryAfter)
	}
}

func TestIntegrationUserRateLimitUnlimited(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	// A zero rate disables limiting entirely.
	for i := 0; i < 10; i++ {
		result, err := c.CheckUserRateLimit(ctx, "unlimited-user", 0, 0)
		if err != nil {
			t.Fatalf("CheckUserRateLimit failed: %v", err)
		}
		if !result.Allowed {
			t.Fatal("expected unlimited user to always be allowed")
		}
	}
}

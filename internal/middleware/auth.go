package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/cache"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header,
// verifies it, and injects the auth context into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from header
			token := extractToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Validate token format
			parsed, err := auth.ParseToken(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_format"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(token)
			authCtx, _ := cfg.Cache.GetAuthContext(r.Context(), cacheKey)

			if authCtx == nil {
				// Cache miss - lookup candidates by prefix
				authCtx = authenticateAgainstStore(cfg, w, r, token, parsed.Prefix)
				if authCtx == nil {
					return // response already written
				}

				// Cache the result
				_ = cfg.Cache.SetAuthContext(r.Context(), cacheKey, authCtx)
			}

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateAgainstStore verifies the token against stored hashes and
// builds the auth context. Writes a 401 and returns nil on failure.
func authenticateAgainstStore(cfg AuthConfig, w http.ResponseWriter, r *http.Request, token, prefix string) *model.AuthContext {
	tokens, err := cfg.Repository.GetTokensByPrefix(r.Context(), prefix)
	if err != nil {
		cfg.Logger.Error("database error during auth",
			slog.String("error", err.Error()),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		writeAuthError(w)
		return nil
	}

	// Verify against each candidate (handles prefix collisions)
	var matched *model.AuthToken
	for _, t := range tokens {
		ok, err := auth.VerifyPassword(token, t.TokenHash)
		if err != nil {
			continue
		}
		if ok {
			matched = t
			break
		}
	}

	if matched == nil {
		cfg.Logger.Warn("authentication failed",
			slog.String("reason", "invalid_token"),
			slog.String("endpoint", r.Method+" "+r.URL.Path),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		writeAuthError(w)
		return nil
	}

	user, err := cfg.Repository.GetUserByID(r.Context(), matched.UserID)
	if err != nil {
		cfg.Logger.Warn("authentication failed",
			slog.String("reason", "user_missing"),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		writeAuthError(w)
		return nil
	}

	return &model.AuthContext{
		TokenID:     matched.ID,
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

// extractToken extracts the bearer token from the request.
// Supports both "Authorization: Bearer <token>" and "X-Auth-Token: <token>" headers.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	return r.Header.Get("X-Auth-Token")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Invalid or missing token"}}`))
}

// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
)

// User service errors.
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailExists        = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 5

// UserService handles user account and token business logic. It holds
// no cache handle: auth-context cache keys derive from plaintext
// tokens, so there is nothing the service could evict.
type UserService struct {
	repo    *repository.Repository
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		logger:  logger,
		metrics: recorder,
	}
}

// NormalizeEmail lowercases the domain part of an email address.
// The local part is preserved as-is because mailbox names are
// case-sensitive per RFC 5321.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, nil
	}

	local, domain := email[:at], email[at+1:]
	return local + "@" + strings.ToLower(domain), nil
}

// CreateUserInput defines input for registering a user.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

// CreateUser registers a new user account. The password is validated
// before any row is written, so a rejected registration leaves no trace.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.metrics.IncUserCreated()
	s.logger.Info("user created",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Authenticate verifies an email/password pair and returns the user.
// A blank password always fails, even if a blank hash were ever stored.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		s.metrics.IncAuthFailure()
		return nil, ErrInvalidCredentials
	}

	if password == "" {
		s.metrics.IncAuthFailure()
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	if err != nil {
		s.metrics.IncAuthFailure()
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.metrics.IncAuthFailure()
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken authenticates the user and replaces any existing token
// with a freshly generated one. The plaintext token is returned exactly
// once; only its hash is persisted.
func (s *UserService) IssueToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	generated, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	token := &model.AuthToken{
		ID:          ulid.Make().String(),
		UserID:      user.ID,
		TokenHash:   generated.Hash,
		TokenPrefix: generated.Prefix,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.ReplaceToken(ctx, token); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}

	s.metrics.IncTokenIssued()
	s.logger.Info("token issued",
		slog.String("user_id", user.ID),
		slog.String("token_prefix", generated.Prefix),
	)

	return generated.Plaintext, nil
}

// GetProfile returns the authenticated user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines a partial profile update. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile applies a partial update to the user's profile.
// Changing the password invalidates the cached auth context on the
// next cache expiry; the token itself stays valid.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("profile updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// DeleteUser removes a user account and, via cascade, its token,
// recipes, and labels. The caller is responsible for the staff check.
// A cached auth context for the deleted user survives until its TTL
// expires; the cache key is derived from the plaintext token, which
// the server no longer has.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("user deleted",
		slog.String("user_id", userID),
	)

	return nil
}

// Command create-superuser bootstraps a staff account with full
// privileges. Run once against a fresh database before exposing the
// admin endpoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
)

type output struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "Superuser email (required)")
		password    = flag.String("password", "", "Superuser password (required, min 5 chars)")
		name        = flag.String("name", "admin", "Display name")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-email and -password are required")
		os.Exit(1)
	}
	if len(*password) < 5 {
		fmt.Fprintln(os.Stderr, "password must be at least 5 characters")
		os.Exit(1)
	}

	// Store the same form a login would look up.
	normalizedEmail, err := service.NormalizeEmail(*email)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid email:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        normalizedEmail,
		Name:         *name,
		PasswordHash: hash,
		IsStaff:      true,
		IsSuperuser:  true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{UserID: user.ID, Email: user.Email}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("Superuser created: %s (%s)\n", out.Email, out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown format:", *format)
		os.Exit(1)
	}
}

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestRecipeService() *RecipeService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	labels := NewLabelService(nil, logger, nil)
	return NewRecipeService(nil, labels, logger, nil)
}

func TestValidateRecipeFields(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		timeMinutes int
		price       decimal.Decimal
		wantTitle   string
		wantErr     error
	}{
		{"empty_title", "", 10, decimal.NewFromInt(5), "", ErrTitleRequired},
		{"whitespace_title", "   ", 10, decimal.NewFromInt(5), "", ErrTitleRequired},
		{"title_too_long", strings.Repeat("a", maxTitleLength+1), 10, decimal.NewFromInt(5), "", ErrTitleRequired},
		{"negative_minutes", "Soup", -1, decimal.NewFromInt(5), "", ErrInvalidDuration},
		{"negative_price", "Soup", 10, decimal.NewFromInt(-1), "", ErrInvalidPrice},
		{"valid", "Soup", 10, decimal.NewFromInt(5), "Soup", nil},
		{"trimmed_title", "  Soup  ", 10, decimal.NewFromInt(5), "Soup", nil},
		{"zero_minutes", "Soup", 0, decimal.NewFromInt(5), "Soup", nil},
		{"zero_price", "Soup", 10, decimal.Zero, "Soup", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := validateRecipeFields(test.title, test.timeMinutes, test.price)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
			if got != test.wantTitle {
				t.Errorf("expected title %q, got %q", test.wantTitle, got)
			}
		})
	}
}

func TestValidateLabelNames(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		wantErr error
	}{
		{"nil", nil, nil},
		{"valid", []string{"Dessert", "Vegan"}, nil},
		{"blank_name", []string{"Dessert", ""}, ErrNameRequired},
		{"whitespace_name", []string{"   "}, ErrNameRequired},
		{"name_too_long", []string{strings.Repeat("a", maxLabelNameLength+1)}, ErrNameRequired},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := validateLabelNames(test.names); !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

// A bad nested label name must fail the request before the recipe row
// is written. The service here has no repository, so any write attempt
// would panic instead of returning the validation error.
func TestCreateRecipeRejectsBadLabelNamesBeforeWrite(t *testing.T) {
	svc := newTestRecipeService()

	tests := []struct {
		name  string
		input CreateRecipeInput
	}{
		{
			name: "blank_tag_name",
			input: CreateRecipeInput{
				Title:       "Soup",
				TimeMinutes: 10,
				Price:       decimal.NewFromInt(5),
				Tags:        []string{""},
			},
		},
		{
			name: "blank_ingredient_name",
			input: CreateRecipeInput{
				Title:       "Soup",
				TimeMinutes: 10,
				Price:       decimal.NewFromInt(5),
				Ingredients: []string{"Salt", " "},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.CreateRecipe(context.Background(), "user-1", test.input)
			if !errors.Is(err, ErrNameRequired) {
				t.Fatalf("expected ErrNameRequired, got %v", err)
			}
		})
	}
}

func TestLabelIDHelpers(t *testing.T) {
	if got := tagIDs(nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
	if got := ingredientIDs(nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

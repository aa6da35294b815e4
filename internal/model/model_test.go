package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStringers(t *testing.T) {
	recipe := &Recipe{Title: "Steak and mushroom sauce"}
	if recipe.String() != "Steak and mushroom sauce" {
		t.Errorf("unexpected recipe string: %s", recipe.String())
	}

	tag := &Tag{Name: "Vegan"}
	if tag.String() != "Vegan" {
		t.Errorf("unexpected tag string: %s", tag.String())
	}

	ingredient := &Ingredient{Name: "Cucumber"}
	if ingredient.String() != "Cucumber" {
		t.Errorf("unexpected ingredient string: %s", ingredient.String())
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := &User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: "super-secret-hash",
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(data), "super-secret-hash") {
		t.Error("password hash must not appear in JSON output")
	}
}

func TestAuthTokenJSONHidesHash(t *testing.T) {
	token := &AuthToken{
		ID:        "t1",
		UserID:    "u1",
		TokenHash: "stored-token-hash",
	}

	data, err := json.Marshal(token)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(data), "stored-token-hash") {
		t.Error("token hash must not appear in JSON output")
	}
}

//go:build e2e

// Package e2e exercises a running API server end to end.
// Requires the server listening on RECIPEBOX_BASE_URL (default
// http://localhost:8080) with its database and Redis behind it.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

type userResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsStaff bool   `json:"is_staff"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type labelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recipeResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       string          `json:"price"`
	Description string          `json:"description"`
	Tags        []labelResponse `json:"tags"`
	Ingredients []labelResponse `json:"ingredients"`
}

type recipeListResponse struct {
	Data  []recipeResponse `json:"data"`
	Count int              `json:"count"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("RECIPEBOX_BASE_URL", "http://localhost:8080")
	client := &http.Client{Timeout: 10 * time.Second}

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	password := "e2e-password"

	// Register.
	user := registerUser(t, client, baseURL, email, password)
	if user.Email != email {
		t.Fatalf("expected email %s, got %s", email, user.Email)
	}
	if user.IsStaff {
		t.Fatal("fresh accounts must not be staff")
	}

	// Obtain a token.
	token := obtainToken(t, client, baseURL, email, password)

	// The profile route supports GET and PATCH only.
	status := requestStatus(t, client, http.MethodPost, baseURL+"/api/v1/user/me", token)
	if status != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST /user/me, got %d", status)
	}

	// Create a recipe with nested labels.
	recipe := createRecipe(t, client, baseURL, token)
	if len(recipe.Tags) != 1 || recipe.Tags[0].Name != "Dessert" {
		t.Fatalf("expected Dessert tag, got %v", recipe.Tags)
	}
	if len(recipe.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(recipe.Ingredients))
	}

	// The recipe shows up in the list.
	list := listRecipes(t, client, baseURL, token, "")
	if list.Count != 1 || list.Data[0].ID != recipe.ID {
		t.Fatalf("expected the created recipe in the list, got %+v", list)
	}

	// A rejected create leaves nothing behind: a valid recipe body with
	// a blank nested tag name fails validation and no row is written.
	badCreate := map[string]any{
		"title":        "Should not exist",
		"time_minutes": 10,
		"price":        "1.00",
		"tags":         []map[string]string{{"name": ""}},
	}
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/recipe/recipes", token, badCreate, http.StatusBadRequest, nil)
	list = listRecipes(t, client, baseURL, token, "")
	if list.Count != 1 {
		t.Fatalf("expected rejected create to leave no row, got %d recipes", list.Count)
	}

	// Same on update: a blank nested tag name rejects the whole PATCH,
	// including its scalar fields.
	badUpdate := map[string]any{
		"title": "Should not stick",
		"tags":  []map[string]string{{"name": " "}},
	}
	doJSON(t, client, http.MethodPatch, baseURL+"/api/v1/recipe/recipes/"+recipe.ID, token, badUpdate, http.StatusBadRequest, nil)
	var unchanged recipeResponse
	doJSON(t, client, http.MethodGet, baseURL+"/api/v1/recipe/recipes/"+recipe.ID, token, nil, http.StatusOK, &unchanged)
	if unchanged.Title != recipe.Title {
		t.Errorf("expected title %q after rejected update, got %q", recipe.Title, unchanged.Title)
	}

	// Filtering by the created tag finds it; a bogus tag does not.
	filtered := listRecipes(t, client, baseURL, token, "?tags="+recipe.Tags[0].ID)
	if filtered.Count != 1 {
		t.Errorf("expected tag filter to match, got %d", filtered.Count)
	}
	empty := listRecipes(t, client, baseURL, token, "?tags=no-such-tag")
	if empty.Count != 0 {
		t.Errorf("expected bogus tag filter to match nothing, got %d", empty.Count)
	}

	// A second account cannot see the first account's recipe.
	otherEmail := fmt.Sprintf("e2e-other-%d@example.com", time.Now().UnixNano())
	registerUser(t, client, baseURL, otherEmail, password)
	otherToken := obtainToken(t, client, baseURL, otherEmail, password)

	status = requestStatus(t, client, http.MethodGet, baseURL+"/api/v1/recipe/recipes/"+recipe.ID, otherToken)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for foreign recipe, got %d", status)
	}

	// Delete and verify.
	deleteRecipe(t, client, baseURL, token, recipe.ID)
	status = requestStatus(t, client, http.MethodGet, baseURL+"/api/v1/recipe/recipes/"+recipe.ID, token)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func registerUser(t *testing.T, client *http.Client, baseURL, email, password string) userResponse {
	t.Helper()
	body := map[string]string{"email": email, "password": password, "name": "E2E User"}

	var user userResponse
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/user/create", "", body, http.StatusCreated, &user)
	return user
}

func obtainToken(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/user/token", "", body, http.StatusOK, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	return resp.Token
}

func createRecipe(t *testing.T, client *http.Client, baseURL, token string) recipeResponse {
	t.Helper()
	body := map[string]any{
		"title":        "Chocolate cheesecake",
		"time_minutes": 30,
		"price":        "5.00",
		"tags":         []map[string]string{{"name": "Dessert"}},
		"ingredients":  []map[string]string{{"name": "Chocolate"}, {"name": "Cheese"}},
	}

	var recipe recipeResponse
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/recipe/recipes", token, body, http.StatusCreated, &recipe)
	return recipe
}

func listRecipes(t *testing.T, client *http.Client, baseURL, token, query string) recipeListResponse {
	t.Helper()
	var list recipeListResponse
	doJSON(t, client, http.MethodGet, baseURL+"/api/v1/recipe/recipes"+query, token, nil, http.StatusOK, &list)
	return list
}

func deleteRecipe(t *testing.T, client *http.Client, baseURL, token, id string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/api/v1/recipe/recipes/"+id, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func requestStatus(t *testing.T, client *http.Client, method, url, token string) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d (%s)", method, url, wantStatus, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

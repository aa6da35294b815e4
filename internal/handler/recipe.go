package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/handler/dto"
	"github.com/recipebox/recipebox/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/recipe/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), authCtx.UserID, service.CreateRecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        dto.LabelNames(req.Tags),
		Ingredients: dto.LabelNames(req.Ingredients),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_created",
		"recipe_id", recipe.ID,
		"user_id", authCtx.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// List handles GET /api/v1/recipe/recipes.
// Optional ?tags= and ?ingredients= accept comma-separated label IDs
// and restrict the result to recipes carrying any of them.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	query := r.URL.Query()

	recipes, err := h.svc.ListRecipes(r.Context(), authCtx.UserID, service.ListRecipesInput{
		TagIDs:        splitIDs(query.Get("tags")),
		IngredientIDs: splitIDs(query.Get("ingredients")),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Get handles GET /api/v1/recipe/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	recipe, err := h.svc.GetRecipe(r.Context(), authCtx.UserID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Update handles PATCH /api/v1/recipe/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateRecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		names := dto.LabelNames(*req.Tags)
		input.Tags = &names
	}
	if req.Ingredients != nil {
		names := dto.LabelNames(*req.Ingredients)
		input.Ingredients = &names
	}

	recipe, err := h.svc.UpdateRecipe(r.Context(), authCtx.UserID, id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Delete handles DELETE /api/v1/recipe/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteRecipe(r.Context(), authCtx.UserID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// splitIDs parses a comma-separated ID list, dropping empty entries.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// handleServiceError maps recipe service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		h.writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrTitleRequired):
		h.writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrInvalidDuration):
		h.writeError(w, http.StatusBadRequest, "INVALID_DURATION", "time_minutes must not be negative")
	case errors.Is(err, service.ErrInvalidPrice):
		h.writeError(w, http.StatusBadRequest, "INVALID_PRICE", "price must not be negative")
	case errors.Is(err, service.ErrNameRequired):
		h.writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Label name is required")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func (h *RecipeHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

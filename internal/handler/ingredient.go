package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/handler/dto"
	"github.com/recipebox/recipebox/internal/service"
)

// IngredientHandler handles HTTP requests for ingredient operations.
type IngredientHandler struct {
	svc    *service.LabelService
	logger *slog.Logger
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(svc *service.LabelService, logger *slog.Logger) *IngredientHandler {
	return &IngredientHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/recipe/ingredients.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	assignedOnly := r.URL.Query().Get("assigned_only") == "1"

	ingredients, err := h.svc.ListIngredients(r.Context(), authCtx.UserID, assignedOnly)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientListResponse(ingredients))
}

// Create handles POST /api/v1/recipe/ingredients.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ingredient, err := h.svc.CreateIngredient(r.Context(), authCtx.UserID, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToIngredientResponse(ingredient))
}

// Update handles PATCH /api/v1/recipe/ingredients/{id}.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ingredient, err := h.svc.UpdateIngredient(r.Context(), authCtx.UserID, id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToIngredientResponse(ingredient))
}

// Delete handles DELETE /api/v1/recipe/ingredients/{id}.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteIngredient(r.Context(), authCtx.UserID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps ingredient service errors to HTTP responses.
func (h *IngredientHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrIngredientNotFound):
		h.writeError(w, http.StatusNotFound, "INGREDIENT_NOT_FOUND", "Ingredient not found")
	case errors.Is(err, service.ErrIngredientExists):
		h.writeError(w, http.StatusBadRequest, "INGREDIENT_EXISTS", "An ingredient with this name already exists")
	case errors.Is(err, service.ErrNameRequired):
		h.writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func (h *IngredientHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

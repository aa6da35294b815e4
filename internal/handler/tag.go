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

// TagHandler handles HTTP requests for tag operations.
type TagHandler struct {
	svc    *service.LabelService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc *service.LabelService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/recipe/tags.
// With ?assigned_only=1 only tags attached to at least one recipe are
// returned, each at most once.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	assignedOnly := r.URL.Query().Get("assigned_only") == "1"

	tags, err := h.svc.ListTags(r.Context(), authCtx.UserID, assignedOnly)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTagListResponse(tags))
}

// Create handles POST /api/v1/recipe/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tag, err := h.svc.CreateTag(r.Context(), authCtx.UserID, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToTagResponse(tag))
}

// Update handles PATCH /api/v1/recipe/tags/{id}.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tag, err := h.svc.UpdateTag(r.Context(), authCtx.UserID, id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTagResponse(tag))
}

// Delete handles DELETE /api/v1/recipe/tags/{id}.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteTag(r.Context(), authCtx.UserID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps tag service errors to HTTP responses.
func (h *TagHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound):
		h.writeError(w, http.StatusNotFound, "TAG_NOT_FOUND", "Tag not found")
	case errors.Is(err, service.ErrTagExists):
		h.writeError(w, http.StatusBadRequest, "TAG_EXISTS", "A tag with this name already exists")
	case errors.Is(err, service.ErrNameRequired):
		h.writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func (h *TagHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

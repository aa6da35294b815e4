package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox/internal/auth"
	"github.com/recipebox/recipebox/internal/service"
)

// AdminHandler handles staff-only administrative operations.
type AdminHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *service.UserService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		logger: logger,
	}
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
// The route is guarded by the staff middleware; deleting a user
// cascades to their token, recipes, and labels.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if id == authCtx.UserID {
		writeError(w, http.StatusBadRequest, "CANNOT_DELETE_SELF", "Cannot delete your own account")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("user_deleted_by_admin",
		"deleted_user_id", id,
		"admin_user_id", authCtx.UserID,
	)

	w.WriteHeader(http.StatusNoContent)
}

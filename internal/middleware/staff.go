package middleware

import (
	"net/http"

	"github.com/recipebox/recipebox/internal/auth"
)

// RequireStaff returns middleware that restricts a route to staff users.
// Must be applied after Auth middleware.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeStaffError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			// Superusers are implicitly staff
			if !authCtx.IsStaff && !authCtx.IsSuperuser {
				writeStaffError(w, http.StatusForbidden, "FORBIDDEN", "Staff access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeStaffError writes a staff-guard error response.
func writeStaffError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}

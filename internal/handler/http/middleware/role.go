package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/AMRWERY/Employees-System-Management-ESM/internal/handler/http/response"
	"github.com/AMRWERY/Employees-System-Management-ESM/internal/pkg/identity"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok || role != identity.RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromRequest(r)
		if !ok || (role != identity.RoleManager && role != identity.RoleAdmin) {
			response.Forbidden(w, "Manager access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func roleFromRequest(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}

	role, ok := claims["role"].(string)
	return role, ok
}

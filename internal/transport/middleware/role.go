package middleware

import (
	"net/http"
	"slices"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// RequireRole rejects anonymous callers with 401 and callers whose role is
// not listed with 403.
func RequireRole(roles ...domain.UserRole) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := Actor(r.Context())
			if !actor.Valid() {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(admin).
func RequireAdmin() Middleware {
	return RequireRole(domain.UserRoleAdmin)
}

// RequireStaff admits any authenticated admin or employee.
func RequireStaff() Middleware {
	return RequireRole(domain.UserRoleAdmin, domain.UserRoleEmployee)
}

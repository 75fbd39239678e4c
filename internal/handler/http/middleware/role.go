package middleware

import (
	"fmt"
	"net/http"

	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/domain/user"
	"github.com/adityacpuu-stack/peoplehub-backend-sub000/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func roleFromContext(r *http.Request) (user.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return user.Role(roleStr), true
}

// RequireHRStaff admits hr_staff and above.
func RequireHRStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok || !user.AtLeast(role, user.RoleHRStaff) {
			response.HandleError(w, user.ErrHRStaffAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireHRManager admits hr_manager and above.
func RequireHRManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok || !user.AtLeast(role, user.RoleHRManager) {
			response.HandleError(w, user.ErrHRManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOwner requires the owner role itself.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok || role != user.RoleOwner {
			response.HandleError(w, user.ErrOwnerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := roleFromContext(r)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

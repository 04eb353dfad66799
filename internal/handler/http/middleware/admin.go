package middleware

import (
	"net/http"

	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
)

// AdminOnly guards data maintenance routes.
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin)(next)
}

package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/response"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
)

// RequireRole allows requests whose "role" claim is one of roles.
func RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			role, err := jwt.ParseRole(roleStr)
			if err != nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, jwt.ErrAdminRequired)
		})
	}
}

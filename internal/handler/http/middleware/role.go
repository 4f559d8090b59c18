package middleware

import (
	"net/http"

	"github.com/avantix/ttw-backend-go/internal/domain/auth"
	"github.com/avantix/ttw-backend-go/internal/domain/user"
	"github.com/avantix/ttw-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly allows owner and admin tokens. Marker tokens carry the same
// verifier signature, so the role claim is the only thing keeping kiosks
// away from payroll.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || (role != string(user.RoleOwner) && role != string(user.RoleAdmin)) {
			response.Forbidden(w, "Admin privileges required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MarkerOnly allows kiosk tokens issued by a PIN login.
func MarkerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(user.RoleMarker) {
			response.Forbidden(w, "Marker token required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

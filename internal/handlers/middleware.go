package handlers

import (
	"net/http"
	"strings"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/handlers/response"
)

// SigningMethod is the HMAC algorithm accepted for status API tokens
const SigningMethod = "HS256"

type MiddlewareProvider struct {
	jwtService primary.JWTService
}

func New(jwtService primary.JWTService) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
	}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteError(w, response.Unauthorized("Authorization header missing"))
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		ok, err := m.jwtService.VerifyTokenHMAC(r.Context(), tokenString, SigningMethod)
		if err != nil || !ok {
			response.WriteError(w, response.Unauthorized("Invalid token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

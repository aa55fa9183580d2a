package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload of an access token issued by the account
// service. Only access tokens are accepted here.
type tokenClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and puts the caller in the
// request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			var claims tokenClaims
			if _, err := parser.ParseWithClaims(tokenStr, &claims, keyFunc); err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if claims.TokenType != "access" {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if claims.Subject == "" {
				writeAuthError(w, http.StatusUnauthorized, "invalid subject")
				return
			}
			role := domain.UserRole(claims.Role)
			if role != domain.RoleAdmin && claims.BusinessID == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing business")
				return
			}
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{
				ID:         claims.Subject,
				Email:      claims.Email,
				Role:       role,
				BusinessID: claims.BusinessID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole ensures the user has one of the allowed roles.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			if _, ok := allowed[u.Role]; len(allowed) > 0 && !ok {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError uses the same envelope as the handlers.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
		"data":    nil,
		"error": map[string]any{
			"code":   status,
			"status": http.StatusText(status),
		},
	})
}

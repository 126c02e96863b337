// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"tasktrack/pkg/auth"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userPhoneKey contextKey = "user_phone"
)

// AuthMiddleware authenticates requests with a Bearer access token. The
// check runs before any ownership logic: an unauthenticated request is
// rejected with 401 without touching storage.
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth wraps a handler, rejecting callers without a valid access
// token and stashing the authenticated user ID in the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			unauthorized(w)
			return
		}

		claims, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userPhoneKey, claims.PhoneNumber)
		next(w, r.WithContext(ctx))
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireAuth.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// UserPhoneFromContext returns the authenticated user's phone number.
func UserPhoneFromContext(ctx context.Context) string {
	phone, _ := ctx.Value(userPhoneKey).(string)
	return phone
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"detail": "Authentication credentials were not provided.",
	})
}

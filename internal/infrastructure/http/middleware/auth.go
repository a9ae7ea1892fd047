package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
)

// AuthValidator validates the access token and sets the subject email in
// context (see EmailFromContext).
type AuthValidator struct {
	tokens ports.TokenService
}

func NewAuthValidator(tokens ports.TokenService) *AuthValidator {
	return &AuthValidator{tokens: tokens}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeAuthErr(w, "missing or invalid authorization")
			return
		}
		tokenString := strings.TrimPrefix(auth, "Bearer ")
		email, err := m.tokens.DecodeAccess(tokenString)
		if err != nil {
			writeAuthErr(w, "invalid token")
			return
		}
		ctx := WithEmail(r.Context(), email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeAuthErr(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

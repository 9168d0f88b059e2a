package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mabood2003/FairPlay/utils"
)

type contextKey string

const playerContextKey contextKey = "player_id"

// Authenticate verifies the Bearer token and stores the player ID in the
// request context. The rest of the system treats the identity as opaque.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "authorization header must be a bearer token", http.StatusUnauthorized)
				return
			}

			playerID, err := utils.ParsePlayerID(tokenString, jwtSecret)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, playerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayerIDFromContext returns the authenticated player's ID.
func GetPlayerIDFromContext(ctx context.Context) (int, error) {
	id, ok := ctx.Value(playerContextKey).(int)
	if !ok || id <= 0 {
		return 0, errors.New("player ID not found in context")
	}
	return id, nil
}

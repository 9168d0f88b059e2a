package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

const jwtClaimPlayerID = "player_id"

// GenerateJWT issues an HS256 session token for the player.
func GenerateJWT(playerID int, secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		jwtClaimPlayerID: playerID,
		"iat":            now.Unix(),
		"exp":            now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParsePlayerID validates the token and extracts the player ID claim.
func ParsePlayerID(tokenString string, secret []byte) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}
	idFloat, ok := claims[jwtClaimPlayerID].(float64)
	if !ok {
		return 0, fmt.Errorf("missing %q claim", jwtClaimPlayerID)
	}
	id := int(idFloat)
	if id <= 0 {
		return 0, fmt.Errorf("invalid player ID in token: %d", id)
	}
	return id, nil
}

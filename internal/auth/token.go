// README: JWT signing and verification for the identity collaborator.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"drivehire/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ActorID types.ID   `json:"actorId"`
	Role    types.Role `json:"role"`
	jwt.RegisteredClaims
}

func Sign(secret string, actorID types.ID, role types.Role, ttl time.Duration) (string, error) {
	claims := Claims{
		ActorID: actorID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Parse(secret, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

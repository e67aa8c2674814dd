package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID    int64  `json:"uid"`
	CitizenID string `json:"cid"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	UserID    int64
	CitizenID string
	Role      Role
}

func (c Claims) Actor() Actor {
	return Actor{UserID: c.UserID, CitizenID: c.CitizenID, Role: c.Role}
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.Role.IsValid() {
		return nil, errors.New("invalid role claim")
	}
	return claims, nil
}

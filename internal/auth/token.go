package auth

import (
	"errors"
	"time"

	"permiso_backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried in the access token.
type Claims struct {
	UserID string          `json:"uid"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secretKey string
	ttl       time.Duration
}

func NewTokenManager(secretKey string, ttlMinutes int) *TokenManager {
	return &TokenManager{
		secretKey: secretKey,
		ttl:       time.Duration(ttlMinutes) * time.Minute,
	}
}

// CreateToken signs an access token for the user.
func (tm *TokenManager) CreateToken(userID string, role models.UserRole) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// ParseToken verifies the token signature and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(tm.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

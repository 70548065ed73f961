package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenSubject is the identity carried in access and refresh tokens.
type TokenSubject struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func GenerateToken(subject TokenSubject, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": subject.UserID.String(),
		"email":   subject.Email,
		"role":    subject.Role,
		"jti":     uuid.NewString(),
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its subject.
func ParseToken(tokenString, secret string) (*TokenSubject, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &TokenSubject{UserID: userID, Email: email, Role: role}, nil
}

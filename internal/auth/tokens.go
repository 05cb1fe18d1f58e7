package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and verifies the HS256 access and refresh tokens stored
// on a user account.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
}

const tokenLifetime = 365 * 24 * time.Hour

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (m *TokenManager) SignAccess(userID string) (string, error) {
	return sign(userID, m.accessSecret)
}

func (m *TokenManager) SignRefresh(userID string) (string, error) {
	return sign(userID, m.refreshSecret)
}

// VerifyAccess returns the user id hex carried by a valid access token.
func (m *TokenManager) VerifyAccess(token string) (string, error) {
	return verify(token, m.accessSecret)
}

func (m *TokenManager) VerifyRefresh(token string) (string, error) {
	return verify(token, m.refreshSecret)
}

func sign(userID string, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid token subject")
	}
	return id, nil
}

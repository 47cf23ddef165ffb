package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopkart-io/storefront/internal/models"
)

var jwtSecret = []byte("super-secret-key")

// SetSecret replaces the signing secret. Call once at startup.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateToken issues a short-lived bearer token for a logged-in user. Admin
// API calls present this token instead of relying solely on the shared key.
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// TokenClaims parses an Authorization header value and returns the token
// claims when the bearer token is valid.
func TokenClaims(authorization string) (jwt.MapClaims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, errors.New("missing or invalid token")
	}
	tokenStr := strings.TrimPrefix(authorization, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TokenRole extracts the role claim from an Authorization header value.
func TokenRole(authorization string) (string, error) {
	claims, err := TokenClaims(authorization)
	if err != nil {
		return "", err
	}
	role, _ := claims["role"].(string)
	return role, nil
}

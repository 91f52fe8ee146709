package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"netfence/internal/support"
)

const tokenLifetime = 24 * time.Hour

func jwtSecret() []byte {
	return []byte(support.GetEnv("JWT_SECRET", ""))
}

// GenerateJWT issues a signed token carrying the given role claim.
func GenerateJWT(role string) (string, error) {
	secret := jwtSecret()
	if len(secret) == 0 {
		return "", errors.New("auth: JWT_SECRET is not set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	secret := jwtSecret()
	if len(secret) == 0 {
		return nil, errors.New("auth: JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

// CheckAdminPassword compares the supplied password against the bcrypt hash
// in ADMIN_PASSWORD_HASH. With no hash configured, login is disabled.
func CheckAdminPassword(password string) bool {
	hash := support.GetEnv("ADMIN_PASSWORD_HASH", "")
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

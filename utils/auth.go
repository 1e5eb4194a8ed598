// utils/auth.go
package utils

import (
	"agenda-backend/config"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const authContextKey = "auth"

// AuthContext is the authenticated owner identity handed to services explicitly.
type AuthContext struct {
	ProviderID uuid.UUID
}

// GenerateSecret returns 32 random bytes, base64 encoded. Used for JWT_SECRET
// and the CANCEL_TOKEN_* keys.
func GenerateSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a provider session token.
func GenerateToken(providerID string) (string, error) {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": providerID,
		"exp": time.Now().Add(TokenTTL()).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

func TokenTTL() time.Duration {
	hours := config.AppConfig.JWTExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// ParseToken validates a token and returns the provider it was issued to.
func ParseToken(tokenString string) (AuthContext, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return AuthContext{}, errors.New("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return AuthContext{}, errors.New("invalid token claims")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return AuthContext{}, errors.New("invalid token subject")
	}
	return AuthContext{ProviderID: id}, nil
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		auth, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(authContextKey, auth)
		c.Next()
	}
}

// AuthFromContext returns the identity stored by AuthMiddleware.
func AuthFromContext(c *gin.Context) (AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return AuthContext{}, false
	}
	auth, ok := v.(AuthContext)
	return auth, ok
}

// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

// UserIDKey is the gin context key holding the authenticated user's id as an int.
const UserIDKey = "user_id"

var (
	errMissingToken = errors.New("authorization header required")
	errBadToken     = errors.New("invalid or expired token")
)

// GenerateToken signs an HS256 token carrying the user's id, username and email.
func GenerateToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a signed token and returns the user id it carries.
func ParseToken(secret, tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, errBadToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errBadToken
	}
	// JSON numbers decode as float64.
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, errBadToken
	}
	return int(raw), nil
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errBadToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func setUser(c *gin.Context, userID int) {
	c.Set(UserIDKey, userID)
	c.Request = c.Request.WithContext(observability.WithUserID(c.Request.Context(), userID))
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err == nil {
			var userID int
			userID, err = ParseToken(secret, tokenString)
			if err == nil {
				setUser(c, userID)
				c.Next()
				return
			}
		}

		message := "Invalid or expired token"
		if errors.Is(err, errMissingToken) {
			message = "Authorization header required"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := bearerToken(c); err == nil {
			if userID, err := ParseToken(secret, tokenString); err == nil {
				setUser(c, userID)
			}
		}
		c.Next()
	}
}

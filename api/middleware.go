package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skyfare/airline-service/pkg/logger"
)

const identityKey = "identity"

// RequestLogger logs one line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Identity is the authenticated caller extracted from the access token.
type Identity struct {
	UserID  int64
	IsStaff bool
}

// Auth parses a Bearer token when one is present and stores the caller's
// identity on the context. Requests without a token pass through anonymous;
// a malformed or expired token is rejected outright.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authorization header"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token claims"})
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token claims"})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(identityKey, Identity{UserID: int64(sub), IsStaff: role == "admin"})
		c.Next()
	}
}

func identityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identityFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everyone but staff users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
		if !id.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

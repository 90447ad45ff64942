package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyUserID       = "user_id"
	contextKeyEmail        = "user_email"
	contextKeyRefreshToken = "refresh_token"
)

// UserIDFromContext returns the current user ID set by the token
// middleware. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// EmailFromContext returns the current user email. "" if not set.
func EmailFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyEmail)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RefreshTokenFromContext returns the raw bearer refresh token stored
// by RequireRefreshToken. "" if not set.
func RefreshTokenFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyRefreshToken)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequireAccessToken returns a middleware that verifies the bearer
// access token and sets the current user ID and email in context.
// Missing or invalid tokens get 401.
func RequireAccessToken(issuer *Issuer) gin.HandlerFunc {
	return requireToken(issuer.VerifyAccess, false)
}

// RequireRefreshToken is RequireAccessToken for the refresh class. It
// additionally keeps the raw token in context so the refresh flow can
// check it against the stored hash.
func RequireRefreshToken(issuer *Issuer) gin.HandlerFunc {
	return requireToken(issuer.VerifyRefresh, true)
}

func requireToken(verify func(string) (Claims, error), keepRaw bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Set(contextKeyEmail, claims.Email)
		if keepRaw {
			c.Set(contextKeyRefreshToken, raw)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

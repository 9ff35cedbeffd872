package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crowdfund/internal/models"
	"crowdfund/internal/permission"
	"crowdfund/internal/service"
	"crowdfund/pkg/logger"
)

const (
	// AuthScheme is the keyword clients put before the key in Authorization.
	AuthScheme = "Token"

	userKey   = "user"
	userIDKey = "userID"
)

// Authenticator resolves a token key to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*models.User, error)
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", AuthScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// TokenAuth identifies the caller from "Authorization: Token <key>". Requests
// without that header continue anonymously; a malformed header or an unknown
// key is rejected with 401.
func TokenAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) == 0 || !strings.EqualFold(parts[0], AuthScheme) {
			c.Next()
			return
		}

		switch len(parts) {
		case 1:
			unauthorized(c, "Invalid token header. No credentials provided.")
			return
		case 2:
		default:
			unauthorized(c, "Invalid token header. Token string should not contain spaces.")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				logger.WithCtx(c.Request.Context()).Error("token lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
				return
			}
			unauthorized(c, "Invalid token.")
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// AuthenticatedOrReadOnly lets anyone read and requires a user for writes.
func AuthenticatedOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !permission.AuthenticatedOrReadOnly(c.Request.Method, CurrentUserID(c)) {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous callers regardless of method.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or 0 when anonymous.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

// CurrentUser returns the authenticated user, or nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

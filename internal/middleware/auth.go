package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stumdgreen/railstutorial/internal/service"
	"github.com/stumdgreen/railstutorial/pkg/log"
	"github.com/stumdgreen/railstutorial/pkg/response"
)

// AuthMiddleware resolves bearer session tokens to users.
type AuthMiddleware struct {
	users service.UserService
}

// NewAuthMiddleware creates a new auth middleware backed by the user service.
func NewAuthMiddleware(users service.UserService) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// RequireAuth aborts with 401 unless the request carries a valid session
// token. On success the current user's id and email are stored on the
// gin context for handlers and the request logger.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := bearerToken(c)
		if sessionToken == "" {
			response.Unauthorized(c, "missing session token")
			c.Abort()
			return
		}

		user, err := m.users.AuthenticateToken(c.Request.Context(), sessionToken)
		if err != nil {
			response.Unauthorized(c, "invalid session token")
			c.Abort()
			return
		}

		c.Set(log.FieldUserID, user.ID)
		c.Set(log.FieldEmail, user.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "" when unauthenticated.
func GetUserID(c *gin.Context) string {
	if id, ok := c.Get(log.FieldUserID); ok {
		return id.(string)
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.GetHeader("X-Session-Token")
}

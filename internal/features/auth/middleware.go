package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/pkg/response"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// Authenticator resolves an access token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

// NewAuthMiddleware creates a Gin middleware for JWT authentication
func NewAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		tokenString, ok := BearerToken(authHeader)
		if !ok {
			response.Unauthorized(c, "Invalid authorization format", "INVALID_AUTH_FORMAT")
			c.Abort()
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrBanned) {
				response.Forbidden(c, "Your account has been banned", "ACCOUNT_BANNED")
			} else {
				response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			}
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Set("email", user.Email)
		c.Set("userType", user.UserType)
		c.Next()
	}
}

// RequireRole lets through only users of the given types
func RequireRole(userTypes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		for _, t := range userTypes {
			if user.UserType == t {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "You are not allowed to perform this action", "FORBIDDEN")
		c.Abort()
	}
}

// CurrentUser returns the user set by the auth middleware
func CurrentUser(c *gin.Context) (*User, bool) {
	usr, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := usr.(*User)
	return user, ok && user != nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

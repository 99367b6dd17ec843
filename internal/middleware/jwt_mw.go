package middleware

import (
	"net/http"
	"strings"

	"user_center/internal/model"
	"user_center/internal/session"
	"user_center/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey    = "authUser"
	AuthRoleKey    = "authRole"
	AuthSessionKey = "authSession"
)

// JWTAuthMiddleware creates a middleware for JWT authentication. On
// success it seeds a request-scoped session with the caller's sanitized
// identity so services receive it as an explicit object, not ambient state.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		sess := session.New()
		sess.SetCurrentUser(&model.SafeUser{
			ID:      claims.UserID,
			Account: claims.Account,
			Role:    model.Role(claims.Role),
		})

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, model.Role(claims.Role))
		c.Set(AuthSessionKey, sess)

		c.Next()
	}
}

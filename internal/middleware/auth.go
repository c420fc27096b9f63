package middleware

import (
	"net/http"
	"strings"

	"artclub/internal/pkg/jwt"
	"artclub/internal/pkg/response"
	"artclub/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the Authorization bearer token and places the resulting
// account into the request context for downstream handlers.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Invalid or expired token")
			c.Abort()
			return
		}

		session.Set(c, session.Account{
			Subject: claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Role:    claims.Role,
		})

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"investing-journal-go/internal/auth"
)

// ErrorResponse mirrors the one in internal/api to avoid an import cycle.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AuthMiddleware verifies the bearer JWT on protected routes.
type AuthMiddleware struct {
	secretKey []byte
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(secretKey []byte) *AuthMiddleware {
	return &AuthMiddleware{secretKey: secretKey}
}

// VerifyToken checks the Authorization header and, on success, sets
// "userID" and "userEmail" in the Gin context for downstream handlers.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		claims, err := auth.ParseToken(parts[1], m.secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired authentication token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

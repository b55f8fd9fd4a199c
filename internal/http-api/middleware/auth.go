package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/http-api/policy"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth rejects requests without a valid bearer token and stores the
// principal in the gin context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(principalKey, principalFromClaims(claims))
		c.Next()
	}
}

// OptionalAuth resolves a principal when a valid token is present and falls
// back to the anonymous principal otherwise, so safe methods stay open.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(principalKey, policy.Anonymous)
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(principalKey, principalFromClaims(claims))
		c.Next()
	}
}

func principalFromClaims(claims *service.Claims) policy.Principal {
	return policy.Principal{
		ID:            claims.UserID,
		Role:          claims.Role,
		IsStaff:       claims.IsStaff,
		Authenticated: true,
	}
}

// PrincipalFrom extracts the principal set by the auth middlewares.
// Anonymous when none was set (route without auth middleware).
func PrincipalFrom(c *gin.Context) policy.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return policy.Anonymous
	}
	p, ok := v.(policy.Principal)
	if !ok {
		return policy.Anonymous
	}
	return p
}

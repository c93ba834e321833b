package middleware

import (
	"net/http"
	"strings"

	"permiso_backend/internal/auth"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/models"
	"permiso_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the gin context.
func AuthMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tm.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.UserRoleKey), claims.Role)

		// Propagate the user id to the request context for logging
		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles restricts a route to the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(string(contextkeys.UserRoleKey))
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			roleStr, isString := roleVal.(string)
			if !isString {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
				return
			}
			role = models.UserRole(roleStr)
		}

		if !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(string(contextkeys.UserIDKey))
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetUserRole extracts the authenticated user's role from the gin context.
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get(string(contextkeys.UserRoleKey))
	if !exists {
		return ""
	}

	if role, ok := roleVal.(models.UserRole); ok {
		return role
	}
	if roleStr, ok := roleVal.(string); ok {
		return models.UserRole(roleStr)
	}
	return ""
}

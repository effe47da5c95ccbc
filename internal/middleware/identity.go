package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the calling user's ID in the Gin context.
const userIDKey = contextKey("userID")

// userIDHeader carries the caller identity established by the gateway in
// front of this service. Authentication itself is an external collaborator;
// the engine only records who acted.
const userIDHeader = "X-User-ID"

// IdentityMiddleware extracts the caller identity from the request header and
// rejects mutating requests without one.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

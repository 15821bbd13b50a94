package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid. Used on browse
// endpoints where anonymous viewers are allowed but see less.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if userID, err := parseToken(parts[1]); err == nil {
					c.Set("userID", userID)
				}
			}
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linguachat/internal/service"
	"linguachat/internal/token"
)

// Protect guards routes with the session cookie: it verifies the token,
// loads the user and stores it in the gin context under "user".
func Protect(issuer *token.Issuer, users service.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie("jwt")
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - No token provided"})
			return
		}

		userID, err := issuer.Verify(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - Invalid token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - User not found"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

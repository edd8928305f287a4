package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Not authorized, login again"

// TokenVerifier is the slice of token.Issuer the middleware needs.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// SessionAuth reads the session cookie, verifies the token and sets
// "userID" in the gin context. Any cookie or token problem aborts with a
// generic 401; the middleware never says why.
func SessionAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie("token")
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": errUnauthorized})
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": errUnauthorized})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

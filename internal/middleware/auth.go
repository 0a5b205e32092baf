package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront-service/internal/models"
)

// AdminAuth guards the admin route group with a bearer API key. When no key
// is configured the guard is disabled, which is only acceptable in
// development.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Authorization header required",
				},
			})
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Invalid authorization format",
				},
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Invalid API key",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Storefront marks requests coming through the public route group so handlers
// shared with the admin API can restrict results to active records.
func Storefront() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("storefront", true)
		c.Next()
	}
}

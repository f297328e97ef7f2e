package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"konsultabot/models"
)

const userIDKey = "userID"

// RequireUser resolves the caller identity from the X-User-ID header set
// by the upstream authentication layer. Requests without it are rejected.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user identity required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// callerID returns the authenticated caller for this request.
func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

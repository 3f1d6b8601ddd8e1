package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/therepeaters/course-platform-api/internal/middleware"
	"github.com/therepeaters/course-platform-api/internal/models"
)

// claimsFromContext extracts the JWT claims set by the auth middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/InsearchofPandas/devcamper-api/internal/models"
)

const userContextKey = "currentUser"

// SetCurrentUser attaches the resolved identity to the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the identity the authorization gate attached, or nil.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

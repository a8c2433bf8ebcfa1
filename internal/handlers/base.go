package handlers

import (
	"github.com/LankyMoose/poller.pro/internal/middleware"
	"github.com/LankyMoose/poller.pro/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the authenticated user set by middleware.LoadUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

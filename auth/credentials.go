package auth

import (
	"predictor/db"
	"predictor/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser extracts Basic credentials from the request and verifies
// them. Returns nil when no valid credentials are present; the caller
// decides whether that matters.
func CurrentUser(c *gin.Context) *models.User {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return nil
	}
	id, ok := models.UserVerify(username, password)
	if !ok {
		return nil
	}
	user := models.User{}
	if db.Instance.First(&user, id).Error != nil {
		return nil
	}
	return &user
}

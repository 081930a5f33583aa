package handlers

import (
	"net/http"

	"predictor/models"

	"github.com/gin-gonic/gin"
)

// LabelList returns the distinct labels detected in the trailing window.
func (e *Env) LabelList(c *gin.Context, user *models.User) {
	if isNotModified(c, latestSessionTx(e.since())) {
		return
	}
	labels, err := models.DistinctLabelsSince(e.since())
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	if labels == nil {
		labels = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

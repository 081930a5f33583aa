package handlers

import (
	"math"
	"net/http"

	"predictor/models"

	"github.com/gin-gonic/gin"
)

const mostCommonLabelsLimit = 5

type StatsResponse struct {
	TotalPredictions       int64            `json:"total_predictions"`
	AverageConfidenceScore float64          `json:"average_confidence_score"`
	MostCommonLabels       map[string]int64 `json:"most_common_labels"`
}

// Stats aggregates the trailing window: session count, mean detection
// score (0.0 when there are no detections) and the top labels by count.
func (e *Env) Stats(c *gin.Context, user *models.User) {
	since := e.since()

	total, err := models.PredictionCountSince(since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	avgScore, err := models.AverageDetectionScoreSince(since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	counts, err := models.MostCommonLabelsSince(since, mostCommonLabelsLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	mostCommon := map[string]int64{}
	for _, lc := range counts {
		mostCommon[lc.Label] = lc.Count
	}
	c.JSON(http.StatusOK, StatsResponse{
		TotalPredictions:       total,
		AverageConfidenceScore: math.Round(avgScore*10000) / 10000,
		MostCommonLabels:       mostCommon,
	})
}

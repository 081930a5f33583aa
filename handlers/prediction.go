package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"predictor/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DetectionObjectInfo struct {
	ID    uint64     `json:"id"`
	Label string     `json:"label"`
	Score float64    `json:"score"`
	Box   [4]float64 `json:"box"`
}

type PredictionSessionInfo struct {
	Uid              string                `json:"uid"`
	UserID           *uint64               `json:"user_id"`
	Timestamp        int64                 `json:"timestamp"`
	OriginalImage    string                `json:"original_image"`
	PredictedImage   string                `json:"predicted_image"`
	DetectionObjects []DetectionObjectInfo `json:"detection_objects"`
}

type PredictionSummary struct {
	Uid       string  `json:"uid"`
	UserID    *uint64 `json:"user_id"`
	Timestamp int64   `json:"timestamp"`
}

func toSessionInfo(s *models.PredictionSession) PredictionSessionInfo {
	info := PredictionSessionInfo{
		Uid:              s.Uid,
		UserID:           s.UserID,
		Timestamp:        s.Timestamp,
		OriginalImage:    s.OriginalImage,
		PredictedImage:   s.PredictedImage,
		DetectionObjects: []DetectionObjectInfo{},
	}
	for i := range s.DetectionObjects {
		d := &s.DetectionObjects[i]
		info.DetectionObjects = append(info.DetectionObjects, DetectionObjectInfo{
			ID:    d.ID,
			Label: d.Label,
			Score: d.Score,
			Box:   d.GetBox(),
		})
	}
	return info
}

func toSummaries(sessions []models.PredictionSession) []PredictionSummary {
	result := []PredictionSummary{}
	for i := range sessions {
		result = append(result, PredictionSummary{
			Uid:       sessions[i].Uid,
			UserID:    sessions[i].UserID,
			Timestamp: sessions[i].Timestamp,
		})
	}
	return result
}

// PredictionCount returns the number of sessions in the trailing window.
func (e *Env) PredictionCount(c *gin.Context, user *models.User) {
	if isNotModified(c, latestSessionTx(e.since())) {
		return
	}
	count, err := models.PredictionCountSince(e.since())
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction_count": count})
}

func (e *Env) PredictionGet(c *gin.Context, user *models.User) {
	session, err := models.PredictionSessionByUid(c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionInfo(&session))
}

// PredictionDelete removes the session, its detections and both blob
// files. Deleting an already-deleted uid answers 404, not success.
func (e *Env) PredictionDelete(c *gin.Context, user *models.User) {
	session, err := models.DeletePredictionSession(c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	// Blob removal is best effort: the rows are gone, a stale file is an
	// accepted bounded leak
	for _, path := range []string{session.OriginalImage, session.PredictedImage} {
		if path == "" {
			continue
		}
		if err := e.Storage.Delete(path); err != nil {
			log.Printf("Could not delete blob %s: %v", path, err)
		}
	}
	c.JSON(http.StatusOK, DetailResponse{"Prediction and images deleted"})
}

// PredictionsByLabel lists sessions having at least one detection with the
// given label. No matches is an empty list, not an error.
func (e *Env) PredictionsByLabel(c *gin.Context, user *models.User) {
	sessions, err := models.PredictionSessionsByLabel(c.Param("label"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSummaries(sessions))
}

func (e *Env) PredictionsByScore(c *gin.Context, user *models.User) {
	minScore, err := strconv.ParseFloat(c.Param("min_score"), 64)
	if err != nil || minScore < 0 || minScore > 1 {
		c.JSON(http.StatusBadRequest, DetailResponse{"Invalid score threshold"})
		return
	}
	sessions, err := models.PredictionSessionsByMinScore(minScore)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSummaries(sessions))
}

// PredictionImage serves the annotated image, honoring the Accept header:
// 406 when the caller does not accept the stored format.
func (e *Env) PredictionImage(c *gin.Context, user *models.User) {
	session, err := models.PredictionSessionByUid(c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{err.Error()})
		return
	}
	mimeType := mime.TypeByExtension(filepath.Ext(session.PredictedImage))
	if !acceptsMimeType(c.GetHeader("Accept"), mimeType) {
		c.JSON(http.StatusNotAcceptable, DetailResponse{"Client does not accept " + mimeType})
		return
	}
	if e.Storage.GetSize(session.PredictedImage) <= 0 {
		if e.Storage.EnsureLocalFile(session.PredictedImage) != nil {
			c.JSON(http.StatusNotFound, DetailResponse{"Predicted image file not found"})
			return
		}
		defer e.Storage.ReleaseLocalFile(session.PredictedImage)
	}
	e.Storage.Serve(session.PredictedImage, c.Request, c.Writer)
}

// acceptsMimeType reports whether an Accept header admits the given type.
// An absent header means "anything".
func acceptsMimeType(accept, mimeType string) bool {
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaType == "*/*" || mediaType == "image/*" || mediaType == mimeType {
			return true
		}
	}
	return false
}

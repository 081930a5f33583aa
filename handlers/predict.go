package handlers

import (
	"bytes"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"predictor/detector"
	"predictor/models"
	"predictor/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PredictResponse struct {
	PredictionUid  string   `json:"prediction_uid"`
	DetectionCount int      `json:"detection_count"`
	Labels         []string `json:"labels"`
	TimeTook       float64  `json:"time_took"`
	UserID         *uint64  `json:"user_id"`
}

// Predict ingests one uploaded image: store the original, run detection on
// the stored copy, store the annotated output, then write the session row
// followed by its detection rows. Anonymous callers are allowed; user is
// nil for them.
func (e *Env) Predict(c *gin.Context, user *models.User) {
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, DetailResponse{"file is required"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	// The annotated copy is re-encoded, so its extension follows the
	// encoder, not the upload
	format, predictedExt := "jpeg", ".jpg"
	if ext == ".png" {
		format, predictedExt = "png", ".png"
	}
	// Fresh uid before any side effect; it keys both blobs and the session row
	uid := uuid.NewString()
	originalPath := storage.OriginalPath(uid + ext)
	predictedPath := storage.PredictedPath(uid + predictedExt)

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DetailResponse{"Prediction failed: " + err.Error()})
		return
	}
	defer file.Close()

	if _, err = e.Storage.Save(originalPath, file); err != nil {
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}

	// Detection reads the stored copy, not the upload buffer, so it
	// exercises the same path later retrievals use
	if err = e.Storage.EnsureLocalFile(originalPath); err != nil {
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}
	defer e.Storage.ReleaseLocalFile(originalPath)
	detections, err := e.Detector.Detect(e.Storage.GetFullPath(originalPath))
	if err != nil {
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}

	if err = e.saveAnnotated(originalPath, predictedPath, format, detections); err != nil {
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}

	var userID *uint64
	if user != nil {
		userID = &user.ID
	}
	session := models.PredictionSession{
		Uid:            uid,
		UserID:         userID,
		Timestamp:      e.Now().Unix(),
		OriginalImage:  originalPath,
		PredictedImage: predictedPath,
	}
	// Session row first: detection rows must never exist without it
	if err = session.Create(); err != nil {
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}
	if err = models.CreateDetectionObjects(uid, detections); err != nil {
		// Roll back the session row so no partial session remains visible
		if _, derr := models.DeletePredictionSession(uid); derr != nil {
			log.Printf("Rollback of session %s failed: %v", uid, derr)
		}
		e.failPrediction(c, err, originalPath, predictedPath)
		return
	}

	timeTook := math.Round(time.Since(start).Seconds()*100) / 100
	c.JSON(http.StatusOK, PredictResponse{
		PredictionUid:  uid,
		DetectionCount: len(detections),
		Labels:         detector.Labels(detections),
		TimeTook:       timeTook,
		UserID:         userID,
	})
}

func (e *Env) saveAnnotated(originalPath, predictedPath, format string, detections []detector.Detection) error {
	var original bytes.Buffer
	if _, err := e.Storage.Load(originalPath, &original); err != nil {
		return err
	}
	var annotated bytes.Buffer
	if err := detector.Annotate(&original, detections, format, &annotated); err != nil {
		return err
	}
	_, err := e.Storage.Save(predictedPath, &annotated)
	return err
}

// failPrediction reports one 500 for the whole operation and removes any
// blob already written, so no file outlives a failed ingestion. A DB row is
// never written before both files exist.
func (e *Env) failPrediction(c *gin.Context, err error, blobPaths ...string) {
	log.Printf("Prediction failed: %v", err)
	for _, path := range blobPaths {
		if e.Storage.GetSize(path) > 0 {
			_ = e.Storage.Delete(path)
		}
	}
	c.JSON(http.StatusInternalServerError, DetailResponse{"Prediction failed: " + err.Error()})
}

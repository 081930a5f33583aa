package handlers

import (
	"net/http"
	"strconv"
	"time"

	"predictor/db"
	"predictor/detector"
	"predictor/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Queries over prediction history look back this far from request time.
const statsWindow = 7 * 24 * time.Hour

// Env carries the dependencies the handlers need beyond the DB: the
// detection model, the blob store and the clock. Built once in main,
// replaced wholesale in tests.
type Env struct {
	Detector detector.Detector
	Storage  storage.StorageAPI
	Now      func() time.Time
}

func (e *Env) since() int64 {
	return e.Now().Add(-statsWindow).Unix()
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

var (
	UnauthorizedResponse  = DetailResponse{"Unauthorized"}
	InvalidCredsResponse  = DetailResponse{"Invalid Credentials"}
	DuplicateUserResponse = DetailResponse{"User already exists"}
	NotFoundResponse      = DetailResponse{"Prediction not found"}
)

const etagHeader = "ETag"

// isNotModified answers conditional GETs: the newest in-window session
// timestamp is the ETag, so clients skip refetching aggregates that cannot
// have changed.
func isNotModified(c *gin.Context, tx *gorm.DB) bool {
	// Set the current ETag in all cases
	row := tx.Row()
	lastCreatedAt := uint64(0)
	// Zero means no sessions in the window; skip the tag so an empty
	// If-None-Match never matches
	if row.Scan(&lastCreatedAt) != nil || lastCreatedAt == 0 {
		return false
	}
	c.Header("cache-control", "private, max-age=1")
	c.Header(etagHeader, strconv.FormatUint(lastCreatedAt, 10))

	remoteLastCreatedAt, _ := strconv.ParseUint(c.Request.Header.Get("If-None-Match"), 10, 64)
	if remoteLastCreatedAt == lastCreatedAt {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

func latestSessionTx(since int64) *gorm.DB {
	// Restricted to the window so the tag moves when sessions age out; the
	// count is folded in so deletions invalidate it too
	return db.Instance.Table("prediction_sessions").
		Where("timestamp >= ?", since).
		Select("ifnull(max(timestamp), 0) + count(*)")
}

package models

import (
	"encoding/json"

	"predictor/db"
	"predictor/detector"
)

// DetectionObject is one labeled, scored, localized instance found within
// its owning prediction session's image.
type DetectionObject struct {
	ID            uint64  `gorm:"primaryKey"`
	PredictionUid string  `gorm:"type:varchar(40);index;not null"`
	Label         string  `gorm:"type:varchar(100);index;not null"`
	Score         float64 `gorm:"not null"`
	Box           string  `gorm:"type:varchar(200);not null"` // JSON [x1,y1,x2,y2] in source-image pixels
}

func (d *DetectionObject) GetBox() (box [4]float64) {
	_ = json.Unmarshal([]byte(d.Box), &box)
	return
}

func BoxToJSONString(box [4]float64) string {
	data, _ := json.Marshal(box)
	return string(data)
}

// CreateDetectionObjects batch-inserts one row per detection. The owning
// session row must already exist. No-op for an empty detection list.
func CreateDetectionObjects(predictionUid string, detections []detector.Detection) error {
	if len(detections) == 0 {
		return nil
	}
	rows := make([]DetectionObject, 0, len(detections))
	for _, d := range detections {
		rows = append(rows, DetectionObject{
			PredictionUid: predictionUid,
			Label:         d.Label,
			Score:         d.Score,
			Box:           BoxToJSONString(d.Box),
		})
	}
	return db.Instance.Create(&rows).Error
}

// DistinctLabelsSince returns the deduplicated label set across all
// detections whose session is newer than the cutoff.
func DistinctLabelsSince(since int64) (labels []string, err error) {
	err = db.Instance.
		Table("detection_objects").
		Distinct("detection_objects.label").
		Joins("join prediction_sessions on prediction_sessions.uid = detection_objects.prediction_uid").
		Where("prediction_sessions.timestamp >= ?", since).
		Pluck("detection_objects.label", &labels).Error
	return
}

// AverageDetectionScoreSince returns the mean score of all detections newer
// than the cutoff, or 0.0 when none qualify.
func AverageDetectionScoreSince(since int64) (avg float64, err error) {
	err = db.Instance.
		Table("detection_objects").
		Select("ifnull(avg(detection_objects.score), 0)").
		Joins("join prediction_sessions on prediction_sessions.uid = detection_objects.prediction_uid").
		Where("prediction_sessions.timestamp >= ?", since).
		Scan(&avg).Error
	return
}

type LabelCount struct {
	Label string
	Count int64
}

// MostCommonLabelsSince returns labels ordered by descending detection
// count. Ties break on label name so the order is deterministic.
func MostCommonLabelsSince(since int64, limit int) (counts []LabelCount, err error) {
	err = db.Instance.
		Table("detection_objects").
		Select("detection_objects.label as label, count(*) as count").
		Joins("join prediction_sessions on prediction_sessions.uid = detection_objects.prediction_uid").
		Where("prediction_sessions.timestamp >= ?", since).
		Group("detection_objects.label").
		Order("count DESC, label ASC").
		Limit(limit).
		Scan(&counts).Error
	return
}

package models

import (
	"predictor/db"

	"gorm.io/gorm"
)

// PredictionSession is one record of a single image that was submitted for
// detection. Its DetectionObjects are owned by it and die with it.
type PredictionSession struct {
	Uid              string  `gorm:"primaryKey;type:varchar(40)"`
	UserID           *uint64 // null when the prediction was made anonymously
	User             *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Timestamp        int64   `gorm:"index;not null"`
	OriginalImage    string  `gorm:"type:varchar(300)"`
	PredictedImage   string  `gorm:"type:varchar(300)"`
	DetectionObjects []DetectionObject `gorm:"foreignKey:PredictionUid;references:Uid"`
}

func (s *PredictionSession) Create() error {
	return db.Instance.Create(s).Error
}

func PredictionSessionByUid(uid string) (s PredictionSession, err error) {
	err = db.Instance.Preload("DetectionObjects").First(&s, "uid = ?", uid).Error
	return
}

// DeletePredictionSession removes the session row together with all of its
// detection rows. The loaded session is returned so the caller can remove
// the blob files as well. Returns gorm.ErrRecordNotFound when the uid does
// not exist (including repeated deletes of the same uid).
func DeletePredictionSession(uid string) (s PredictionSession, err error) {
	if err = db.Instance.First(&s, "uid = ?", uid).Error; err != nil {
		return
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&DetectionObject{}, "prediction_uid = ?", uid).Error; err != nil {
			return err
		}
		return tx.Delete(&PredictionSession{}, "uid = ?", uid).Error
	})
	return
}

func PredictionCountSince(since int64) (count int64, err error) {
	err = db.Instance.Model(&PredictionSession{}).Where("timestamp >= ?", since).Count(&count).Error
	return
}

// PredictionSessionsByLabel returns sessions having at least one detection
// with the given label. An empty result is a valid answer, not an error.
func PredictionSessionsByLabel(label string) (sessions []PredictionSession, err error) {
	err = db.Instance.
		Distinct("prediction_sessions.*").
		Joins("join detection_objects on detection_objects.prediction_uid = prediction_sessions.uid").
		Where("detection_objects.label = ?", label).
		Order("prediction_sessions.timestamp DESC").
		Find(&sessions).Error
	return
}

// PredictionSessionsByMinScore returns sessions having at least one
// detection with score >= minScore.
func PredictionSessionsByMinScore(minScore float64) (sessions []PredictionSession, err error) {
	err = db.Instance.
		Distinct("prediction_sessions.*").
		Joins("join detection_objects on detection_objects.prediction_uid = prediction_sessions.uid").
		Where("detection_objects.score >= ?", minScore).
		Order("prediction_sessions.timestamp DESC").
		Find(&sessions).Error
	return
}

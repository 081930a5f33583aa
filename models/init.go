package models

import (
	"predictor/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&PredictionSession{})
	db.Instance.AutoMigrate(&DetectionObject{})
}

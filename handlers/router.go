package handlers

import (
	"predictor/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes builds the full route table. Everything except /health,
// user registration and anonymous /predict goes through the access gate.
func RegisterRoutes(router *gin.Engine, env *Env) {
	router.GET("/health", Health)
	router.POST("/users", UserCreate)

	authRouter := &auth.Router{Base: router}
	authRouter.POST("/predict", env.Predict, auth.AllowAnonymous)
	authRouter.GET("/prediction/count", env.PredictionCount)
	authRouter.GET("/prediction/:uid", env.PredictionGet)
	authRouter.DELETE("/prediction/:uid", env.PredictionDelete)
	authRouter.GET("/prediction/:uid/image", env.PredictionImage)
	authRouter.GET("/labels", env.LabelList)
	authRouter.GET("/predictions/label/:label", env.PredictionsByLabel)
	authRouter.GET("/predictions/score/:min_score", env.PredictionsByScore)
	authRouter.GET("/image/:type/:filename", env.ImageFetch)
	authRouter.GET("/stats", env.Stats)
}

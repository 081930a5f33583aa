package main

import (
	"log"
	"strings"
	"time"

	"predictor/config"
	"predictor/db"
	"predictor/detector"
	"predictor/handlers"
	"predictor/models"
	"predictor/storage"
	"predictor/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()
	storage.Init()

	// The model wrapper is built once and shared; the helper process itself
	// starts lazily on the first prediction
	det := detector.NewScriptDetector(config.DETECTOR_SCRIPT, time.Duration(config.DETECTOR_IDLE_SECS)*time.Second)
	env := &handlers.Env{
		Detector: det,
		Storage:  storage.GetDefaultStorage(),
		Now:      time.Now,
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{"^/image/.*", "^/prediction/.*/image$"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	handlers.RegisterRoutes(router, env)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

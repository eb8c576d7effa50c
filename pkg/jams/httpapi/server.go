// Package httpapi implements the HTTP wire surface over the Manager facade.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jams-project/jams/pkg/jams/manager"
	"github.com/jams-project/jams/pkg/logging"
)

// NewRouter builds the gin engine: recovery, CORS, request-ID logging,
// Prometheus metrics, and the model/predict routes.
func NewRouter(m *manager.Manager, logger logging.Interface) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(metricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	router.Use(cors.New(corsConfig))

	h := NewHandlers(m)

	router.GET("/", h.Banner)
	router.GET("/healthcheck", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/models", h.GetModels)
		api.POST("/models", h.AddModel)
		api.PUT("/models", h.UpdateModel)
		api.DELETE("/models", h.DeleteModel)
		api.POST("/predict", h.Predict)
	}

	return router
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/globalpulse/internal/telemetry"
)

// NewRouter creates a gin engine with recovery, CORS, and all routes.
func NewRouter(handler *Handler, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())
	SetupRoutes(router, handler)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", handler.Search)     // GET /api/v1/search?q=
		v1.GET("/geo", handler.Geo)           // GET /api/v1/geo?q=
		v1.GET("/insights", handler.Insights) // GET /api/v1/insights?q=
		v1.POST("/chat", handler.Chat)        // POST /api/v1/chat
	}
}

// corsMiddleware allows browser dashboards on any origin to call the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cortexintel/cortex/internal/http/handlers"
	"github.com/cortexintel/cortex/internal/http/middleware"
)

type RouterConfig struct {
	HealthHandler *handlers.HealthHandler
	ReviewHandler *handlers.ReviewHandler
	GraphHandler  *handlers.GraphHandler
	AllowOrigins  []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:8050", "http://localhost:8051"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		// Review lanes
		api.GET("/review/nodes/next", cfg.ReviewHandler.NextNode)
		api.POST("/review/nodes/approve", cfg.ReviewHandler.ApproveNode)
		api.POST("/review/nodes/reject", cfg.ReviewHandler.RejectNode)
		api.GET("/review/relationships/next", cfg.ReviewHandler.NextRelationship)
		api.POST("/review/relationships/approve", cfg.ReviewHandler.ApproveRelationship)
		api.POST("/review/relationships/reject", cfg.ReviewHandler.RejectRelationship)

		// Approved view
		api.GET("/graph", cfg.GraphHandler.Graph)
		api.GET("/graph/nodes/:name/connections", cfg.GraphHandler.NodeConnections)
		api.POST("/graph/query", cfg.GraphHandler.Query)
	}

	return router
}

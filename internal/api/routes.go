package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/greenread/backend/internal/api/handlers"
	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/middleware"
	"github.com/greenread/backend/internal/ws"
)

// SetupRoutes registers every HTTP and WebSocket endpoint.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.GET("/health", handlers.Health(db, rdb))

	v1 := router.Group("/api/v1")

	v1.POST("/auth/token", handlers.IssueToken(db, cfg))

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(cfg))
	{
		authed.POST("/greens", handlers.BuildGreen())
		authed.GET("/greens/:token", handlers.GetGreen(db))
		authed.POST("/greens/:token/refresh", handlers.RefreshGreen())

		authed.POST("/plans", handlers.RunPlan())
		authed.POST("/plans/single", handlers.RunSingleShot())
		authed.GET("/plans/:token", handlers.GetPlan(db))
	}

	// The render stream authenticates by session token; browsers cannot set
	// an Authorization header on a WebSocket upgrade.
	v1.GET("/plans/:token/ws", middleware.WebSocketCORSCheck(cfg), ws.HandleRenderSocket)

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAuth(cfg), middleware.RequireAdmin())
	{
		admin.GET("/tuning", handlers.GetTuning(rdb, cfg))
		admin.PUT("/tuning", handlers.UpdateTuning(rdb, cfg))
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/greenread/backend/internal/api"
	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/database"
	"github.com/greenread/backend/internal/middleware"
	"github.com/greenread/backend/internal/migrations"
	appredis "github.com/greenread/backend/internal/redis"
	"github.com/greenread/backend/internal/session"
	"github.com/greenread/backend/internal/ws"
)

func main() {
	cfg := config.Load()
	log.Printf("[MAIN] Starting GreenRead backend (env=%s)", cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[MAIN] Database connection failed: %v", err)
	}
	defer db.Close()

	if os.Getenv("MIGRATE_ON_START") == "true" {
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("[MAIN] Migrations failed: %v", err)
		}
	}

	rdb, err := appredis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("[MAIN] Redis connection failed: %v", err)
	}
	defer rdb.Close()

	session.InitializeManager(db, rdb, cfg)
	session.Manager.SetRendererFactory(ws.NewRenderer)

	ctx := context.Background()
	ws.SetRedisClient(rdb, cfg)
	ws.StartPlanEventSubscriber(ctx)
	session.StartExpiryWorker(ctx, db, rdb, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg))

	api.SetupRoutes(router, db, rdb, cfg)

	log.Printf("[MAIN] Listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[MAIN] Server exited: %v", err)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Health reports process liveness plus the state of both backing stores.
func Health(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if err := db.Ping(); err != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		redisStatus := "ok"
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":   "up",
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/putt"
)

const tuningKey = "planner_tuning"

type tuning struct {
	DefaultGreenSpeed string  `json:"default_green_speed"`
	MaxShots          int     `json:"max_shots"`
	GridResolutionM   float64 `json:"grid_resolution_m"`
	GridWidthM        float64 `json:"grid_width_m"`
}

// GetTuning returns the effective planner defaults: the configured values
// overlaid with any admin overrides stored in Redis.
func GetTuning(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := tuning{
			DefaultGreenSpeed: cfg.DefaultGreenSpeed,
			MaxShots:          cfg.MaxShots,
			GridResolutionM:   cfg.GridResolutionM,
			GridWidthM:        cfg.GridWidthM,
		}

		vals, err := rdb.HGetAll(c.Request.Context(), tuningKey).Result()
		if err != nil {
			log.Printf("[ADMIN] tuning read failed: %v", err)
		}
		if v, ok := vals["default_green_speed"]; ok {
			t.DefaultGreenSpeed = v
		}
		if v, ok := vals["max_shots"]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				t.MaxShots = n
			}
		}
		if v, ok := vals["grid_resolution_m"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				t.GridResolutionM = f
			}
		}
		if v, ok := vals["grid_width_m"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				t.GridWidthM = f
			}
		}

		c.JSON(http.StatusOK, t)
	}
}

// UpdateTuning stores admin overrides for planner defaults and applies them
// to the live config so new sessions pick them up immediately.
func UpdateTuning(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tuning
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tuning payload"})
			return
		}

		fields := map[string]interface{}{}
		if req.DefaultGreenSpeed != "" {
			if !putt.GreenSpeed(req.DefaultGreenSpeed).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown green speed"})
				return
			}
			fields["default_green_speed"] = req.DefaultGreenSpeed
			cfg.DefaultGreenSpeed = req.DefaultGreenSpeed
		}
		if req.MaxShots > 0 {
			fields["max_shots"] = req.MaxShots
			cfg.MaxShots = req.MaxShots
		}
		if req.GridResolutionM > 0 {
			fields["grid_resolution_m"] = req.GridResolutionM
			cfg.GridResolutionM = req.GridResolutionM
		}
		if req.GridWidthM > 0 {
			fields["grid_width_m"] = req.GridWidthM
			cfg.GridWidthM = req.GridWidthM
		}

		if len(fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no tuning fields supplied"})
			return
		}

		if err := rdb.HSet(c.Request.Context(), tuningKey, fields).Err(); err != nil {
			log.Printf("[ADMIN] tuning write failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "tuning update failed"})
			return
		}

		log.Printf("[ADMIN] tuning updated: %v", fields)
		c.JSON(http.StatusOK, gin.H{"updated": fields})
	}
}

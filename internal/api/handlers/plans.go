package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/greenread/backend/internal/putt"
	"github.com/greenread/backend/internal/session"
	"github.com/greenread/backend/internal/store"
)

type planRequest struct {
	GreenToken string `json:"green_token" binding:"required"`
	GreenSpeed string `json:"green_speed"`
	MaxShots   int    `json:"max_shots"`
}

type singleShotRequest struct {
	GreenToken string  `json:"green_token" binding:"required"`
	GreenSpeed string  `json:"green_speed"`
	PowerScale float64 `json:"power_scale"`
}

// RunPlan executes the full multi-shot search over a green and returns the
// session summary. The search runs synchronously; viewers connected to the
// session's render stream see paths as they are found.
func RunPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req planRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "green_token required"})
			return
		}

		summary, err := session.Manager.RunPlan(c.Request.Context(), req.GreenToken, putt.GreenSpeed(req.GreenSpeed), req.MaxShots)
		if err != nil {
			if err == session.ErrGreenExpired {
				c.JSON(http.StatusGone, gin.H{"error": "green no longer cached; rebuild it"})
				return
			}
			log.Printf("[API] plan run failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "plan run failed"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// RunSingleShot executes one adaptive attempt without creating a session.
// Useful for quick what-if reads at a chosen power scale.
func RunSingleShot() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req singleShotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "green_token required"})
			return
		}

		shot, err := session.Manager.RunSingleShot(c.Request.Context(), req.GreenToken, putt.GreenSpeed(req.GreenSpeed), req.PowerScale)
		if err != nil {
			if err == session.ErrGreenExpired {
				c.JSON(http.StatusGone, gin.H{"error": "green no longer cached; rebuild it"})
				return
			}
			log.Printf("[API] single shot failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "single shot failed"})
			return
		}
		c.JSON(http.StatusOK, shot)
	}
}

// GetPlan returns a finished session: the cached summary when Redis still
// has it, otherwise the durable record with its persisted shots.
func GetPlan(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		if summary, err := session.Manager.CachedSummary(c.Request.Context(), token); err == nil {
			c.JSON(http.StatusOK, gin.H{"source": "cache", "plan": summary})
			return
		}

		sess, err := store.GetSessionByToken(db, token)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
				return
			}
			log.Printf("[API] plan lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "plan lookup failed"})
			return
		}

		shots, err := store.GetShotsBySession(db, sess.ID)
		if err != nil {
			log.Printf("[API] shots lookup failed for session %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "plan lookup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": "database", "session": sess, "shots": shots})
	}
}

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

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p point) vec() putt.Vec3 {
	return putt.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

type buildGreenRequest struct {
	Start      point   `json:"start" binding:"required"`
	Target     point   `json:"target" binding:"required"`
	Samples    []point `json:"samples"`
	Resolution float64 `json:"resolution"`
	Width      float64 `json:"width"`
}

type refreshGreenRequest struct {
	Samples []point `json:"samples" binding:"required"`
}

func toVecs(pts []point) []putt.Vec3 {
	out := make([]putt.Vec3, len(pts))
	for i, p := range pts {
		out[i] = p.vec()
	}
	return out
}

// BuildGreen constructs a terrain field from scanned height samples and
// caches it for planning.
func BuildGreen() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req buildGreenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start and target required"})
			return
		}

		startV, targetV := req.Start.vec(), req.Target.vec()
		if startV.PlanarDistance(targetV) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start and target must differ"})
			return
		}

		summary, err := session.Manager.BuildGreen(c.Request.Context(), startV, targetV, toVecs(req.Samples), req.Resolution, req.Width)
		if err != nil {
			log.Printf("[API] green build failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "green build failed"})
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

// GetGreen returns the stored metadata for a built green.
func GetGreen(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		green, err := store.GetGreenByToken(db, token)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "green not found"})
				return
			}
			log.Printf("[API] green lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "green lookup failed"})
			return
		}

		cached := true
		if _, err := session.Manager.LoadField(c.Request.Context(), token); err != nil {
			cached = false
		}
		c.JSON(http.StatusOK, gin.H{"green": green, "cached": cached})
	}
}

// RefreshGreen re-queries heights over an existing field from a fresh scan.
func RefreshGreen() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		var req refreshGreenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "samples required"})
			return
		}

		summary, err := session.Manager.RefreshGreen(c.Request.Context(), token, toVecs(req.Samples))
		if err != nil {
			if err == session.ErrGreenExpired {
				c.JSON(http.StatusGone, gin.H{"error": "green no longer cached; rebuild it"})
				return
			}
			log.Printf("[API] green refresh failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "green refresh failed"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

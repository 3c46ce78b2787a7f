package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/middleware"
	"github.com/greenread/backend/internal/store"
)

type tokenRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	APIKey     string `json:"api_key" binding:"required"`
}

// IssueToken exchanges a client name and API key for a signed access token.
func IssueToken(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_name and api_key required"})
			return
		}

		client, err := store.GetClientByName(db, req.ClientName)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			log.Printf("[AUTH] client lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(client.KeyHash), []byte(req.APIKey)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
		claims := middleware.Claims{
			ClientName: client.Name,
			Admin:      client.IsAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Subject:   client.Name,
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[AUTH] token signing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Printf("[AUTH] issued token for client %s (admin=%v)", client.Name, client.IsAdmin)
		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_in": int(ttl.Seconds()),
		})
	}
}

package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/models"
)

// StartExpiryWorker starts a background worker that retires overdue
// planning sessions: due tokens are pulled from the Redis deadline set,
// their cached summaries dropped, and the DB rows marked expired.
func StartExpiryWorker(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[EXPIRY] Redis or config missing; expiry worker not started")
		return
	}

	log.Println("[EXPIRY] Expiry worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.ExpiryWorkerPollSeconds) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[EXPIRY] Expiry worker stopping")
				return
			case <-ticker.C:
				now := time.Now().Unix()
				members, err := rdb.ZRangeByScore(ctx, expiryZSet, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
				if err != nil {
					log.Printf("[EXPIRY] Failed to fetch due sessions: %v", err)
					continue
				}

				for _, token := range members {
					// ZRem first so two workers cannot both claim the token.
					if removed, _ := rdb.ZRem(ctx, expiryZSet, token).Result(); removed == 0 {
						continue
					}
					if Manager != nil && Manager.IsActive(token) {
						// Still computing; put it back for the next tick.
						rdb.ZAdd(ctx, expiryZSet, redis.Z{Score: float64(now + int64(cfg.ExpiryWorkerPollSeconds)), Member: token})
						continue
					}

					rdb.Del(ctx, planKeyPrefix+token)
					res, err := db.Exec(`UPDATE plan_sessions SET status=$1 WHERE token=$2 AND status=$3`,
						models.SessionExpired, token, models.SessionPending)
					if err != nil {
						log.Printf("[EXPIRY] Failed to expire session %s: %v", token, err)
						continue
					}
					if n, _ := res.RowsAffected(); n > 0 {
						log.Printf("[EXPIRY] Session %s expired", token)
					}
				}
			}
		}
	}()
}

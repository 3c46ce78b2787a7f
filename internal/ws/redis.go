package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/greenread/backend/internal/config"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartPlanEventSubscriber subscribes to the plan_events channel and relays
// completion events to the session's viewers. Planning may run on another
// instance; the Redis channel is what makes the fan-out work across them.
func StartPlanEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; plan event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "plan_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] plan_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid plan event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionToken, _ := payload["session_token"].(string)
			if sessionToken == "" {
				continue
			}

			switch typeStr {
			case "plan_complete":
				if n := RenderHub.RoomSize(sessionToken); n > 0 {
					log.Printf("[WS] relaying plan_complete to session %s (viewers=%d)", sessionToken, n)
				}
				RenderHub.BroadcastToSession(sessionToken, payload)
			default:
				log.Printf("[WS] unhandled plan event type %q", typeStr)
			}
		}
	}()
}

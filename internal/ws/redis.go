package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/plinko/internal/table"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber relays table events published on Redis to every
// display connected to this process.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, table.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", table.EventsChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", table.EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				relayEvent(hub, []byte(msg.Payload))
			}
		}
	}()
}

// relayEvent checks that payload is a table event before broadcasting it.
func relayEvent(hub *Hub, payload []byte) bool {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return false
	}
	if head.Type != table.MsgEvent {
		log.Printf("[WS] ignoring event of type %q", head.Type)
		return false
	}
	hub.BroadcastRaw(payload)
	return true
}

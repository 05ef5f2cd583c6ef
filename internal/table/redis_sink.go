package table

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/playmatatu/plinko/internal/game"
	"github.com/redis/go-redis/v9"
)

// Redis keys and channels used by the table.
const (
	EventsChannel = "plinko_events"
	StatsKey      = "plinko:stats"
	StateKey      = "plinko:table:state"

	stateTTL = time.Hour
)

// publishEvents publishes each event on EventsChannel, bumps the stats
// counters and stores the latest snapshot, all in one pipeline.
func (m *Manager) publishEvents(snap Snapshot, events []game.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = m.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, ev := range events {
			payload, err := json.Marshal(eventMessage(snap.SessionID, ev))
			if err != nil {
				return err
			}
			pipe.Publish(ctx, EventsChannel, payload)

			switch ev.Type {
			case game.EventDrop:
				pipe.HIncrBy(ctx, StatsKey, "drops", 1)
				pipe.HIncrByFloat(ctx, StatsKey, "wagered", -ev.Amount)
			case game.EventPayout:
				pipe.HIncrBy(ctx, StatsKey, "settled", 1)
				pipe.HIncrBy(ctx, StatsKey, "zone:"+strconv.Itoa(ev.ZoneIndex), 1)
				pipe.HIncrByFloat(ctx, StatsKey, "paid_out", ev.Amount)
			case game.EventLost:
				pipe.HIncrBy(ctx, StatsKey, "lost", 1)
			}
		}
		pipe.SetEx(ctx, StateKey, state, stateTTL)
		return nil
	})
	return err
}

// Stats returns the lifetime counters kept in Redis.
func (m *Manager) Stats(ctx context.Context) (map[string]string, error) {
	if m.rdb == nil {
		return nil, ErrNoStats
	}
	return m.rdb.HGetAll(ctx, StatsKey).Result()
}

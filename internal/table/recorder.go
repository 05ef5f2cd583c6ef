package table

import (
	"context"
	"database/sql"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/models"
)

// recorder writes finished rounds to Postgres off the frame clock. When the
// queue is full rounds are dropped with a log line rather than stalling ticks.
type recorder struct {
	db     *sqlx.DB
	rounds chan models.Round
}

func newRecorder(db *sqlx.DB, buffer int) *recorder {
	return &recorder{db: db, rounds: make(chan models.Round, buffer)}
}

func (r *recorder) enqueue(round models.Round) {
	select {
	case r.rounds <- round:
	default:
		log.Printf("[DB] Round queue full, dropping record for ball %d in %s", round.BallID, round.SessionID)
	}
}

func (r *recorder) run(ctx context.Context) {
	log.Println("[DB] Round recorder started")
	for {
		select {
		case <-ctx.Done():
			log.Println("[DB] Round recorder stopping")
			return
		case round := <-r.rounds:
			r.insert(round)
		}
	}
}

func (r *recorder) insert(round models.Round) {
	_, err := r.db.NamedExec(`
		INSERT INTO plinko_rounds (session_id, ball_id, outcome, zone_index, multiplier, cost, payout, balance_after, ticks, created_at)
		VALUES (:session_id, :ball_id, :outcome, :zone_index, :multiplier, :cost, :payout, :balance_after, :ticks, NOW())
	`, round)
	if err != nil {
		log.Printf("[DB] Failed to record round for ball %d in %s: %v", round.BallID, round.SessionID, err)
	}
}

// roundFromEvent turns a terminal event into a history row.
func roundFromEvent(session string, cost float64, ev game.Event) (models.Round, bool) {
	round := models.Round{
		SessionID:    session,
		BallID:       ev.BallID,
		Cost:         cost,
		BalanceAfter: ev.Balance,
		Ticks:        ev.BallTicks,
	}

	switch ev.Type {
	case game.EventPayout:
		round.Outcome = string(game.StateSettled)
		round.ZoneIndex = sql.NullInt64{Int64: int64(ev.ZoneIndex), Valid: true}
		round.Multiplier = ev.Multiplier
		round.Payout = ev.Amount
	case game.EventLost:
		round.Outcome = string(game.StateLost)
	default:
		return models.Round{}, false
	}
	return round, true
}

// RecentRounds returns the newest rounds, optionally limited to one session.
func RecentRounds(db *sqlx.DB, session string, limit, offset int) ([]models.Round, error) {
	var rounds []models.Round
	query := `
		SELECT id, session_id, ball_id, outcome, zone_index, multiplier, cost, payout, balance_after, ticks, created_at
		FROM plinko_rounds
		WHERE ($1 = '' OR session_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	err := db.Select(&rounds, query, session, limit, offset)
	return rounds, err
}

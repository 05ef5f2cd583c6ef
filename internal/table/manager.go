package table

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/redis/go-redis/v9"
)

// Broadcaster delivers messages to every connected display.
type Broadcaster interface {
	Broadcast(message interface{})
}

// Options tune the frame clock and the random source of a table.
type Options struct {
	TickRateHz int
	Seed       int64 // 0 picks a time-based seed per session
}

// Manager owns the single table: the running Simulation, its frame clock and
// the fan-out of its events to displays, Redis and the round history.
// The Simulation itself is single-threaded; every access goes through mu.
// outMu is taken before mu is released so the output of one critical
// section is fully sent before the next one's. Lock order is mu, then outMu.
type Manager struct {
	mu        sync.Mutex
	outMu     sync.Mutex
	sim       *game.Simulation
	board     *game.Board
	cfg       game.Config
	sessionID string
	seed      int64
	startedAt time.Time

	opts        Options
	db          *sqlx.DB
	rdb         *redis.Client
	recorder    *recorder
	bmu         sync.RWMutex
	broadcaster Broadcaster
}

// DropResult is the answer to a drop request.
type DropResult struct {
	Accepted bool    `json:"accepted"`
	Balance  float64 `json:"balance"`
	BallID   int64   `json:"ball_id,omitempty"`
}

// Snapshot is the per-frame view of the table.
type Snapshot struct {
	SessionID   string          `json:"session_id"`
	Tick        int64           `json:"tick"`
	Balance     float64         `json:"balance"`
	CostPerPlay float64         `json:"cost_per_play"`
	Balls       []game.BallView `json:"balls"`
}

// NewManager validates cfg, lays out the board and opens the first session.
// db and rdb may be nil; the corresponding sinks are then skipped.
func NewManager(db *sqlx.DB, rdb *redis.Client, cfg game.Config, opts Options) (*Manager, error) {
	if opts.TickRateHz <= 0 {
		opts.TickRateHz = 60
	}

	m := &Manager{
		opts: opts,
		db:   db,
		rdb:  rdb,
	}
	if db != nil {
		m.recorder = newRecorder(db, 1024)
	}
	if err := m.startSession(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// SetBroadcaster wires the local display fan-out (the websocket hub).
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.bmu.Lock()
	defer m.bmu.Unlock()
	m.broadcaster = b
}

func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// startSession builds a fresh board and simulation. Callers hold mu or are
// the constructor.
func (m *Manager) startSession(cfg game.Config) error {
	board, err := game.NewBoard(cfg)
	if err != nil {
		return err
	}

	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m.board = board
	m.cfg = board.Config()
	m.seed = seed
	m.sim = game.NewSimulation(board, mrand.New(mrand.NewSource(seed)))
	m.sessionID = "table_" + generateToken(8)
	m.startedAt = time.Now()

	if m.db != nil {
		if _, err := m.db.Exec(
			`INSERT INTO table_sessions (id, initial_balance, seed, started_at) VALUES ($1,$2,$3,$4)`,
			m.sessionID, m.cfg.InitialBalance, seed, m.startedAt,
		); err != nil {
			log.Printf("[DB] Failed to record session %s: %v", m.sessionID, err)
		}
	}

	log.Printf("[TABLE] Session %s started (balance=%.2f seed=%d pegs=%d zones=%d)",
		m.sessionID, m.cfg.InitialBalance, seed, len(board.Pegs), len(board.Zones))
	return nil
}

// Run drives the simulation from a frame clock until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	if m.recorder != nil {
		go m.recorder.run(ctx)
	}

	interval := time.Second / time.Duration(m.opts.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[TABLE] Frame clock started at %d Hz", m.opts.TickRateHz)
	for {
		select {
		case <-ctx.Done():
			log.Println("[TABLE] Frame clock stopping")
			return
		case <-ticker.C:
			m.Step()
		}
	}
}

// Step advances the table by one tick and dispatches the results.
func (m *Manager) Step() []game.Event {
	m.mu.Lock()
	events := m.sim.Tick()
	snap := m.snapshotLocked()
	cost := m.cfg.CostPerPlay
	idle := len(snap.Balls) == 0 && len(events) == 0
	m.outMu.Lock()
	m.mu.Unlock()
	defer m.outMu.Unlock()

	// An empty table has nothing new to draw.
	if !idle {
		m.broadcast(frameMessage(snap))
	}
	m.dispatch(snap, cost, events)
	return events
}

// Drop asks the table for a new ball on behalf of a front end.
func (m *Manager) Drop() DropResult {
	m.mu.Lock()
	balance, ok, events := m.sim.RequestDrop()
	snap := m.snapshotLocked()
	cost := m.cfg.CostPerPlay

	res := DropResult{Accepted: ok, Balance: balance}
	if !ok {
		m.mu.Unlock()
		return res
	}
	m.outMu.Lock()
	m.mu.Unlock()
	defer m.outMu.Unlock()

	for _, ev := range events {
		if ev.Type == game.EventDrop {
			res.BallID = ev.BallID
		}
	}
	m.dispatch(snap, cost, events)
	return res
}

// Snapshot returns the current balance and ball positions.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:   m.sessionID,
		Tick:        m.sim.TickCount(),
		Balance:     m.sim.Balance(),
		CostPerPlay: m.cfg.CostPerPlay,
		Balls:       m.sim.Balls(),
	}
}

// Layout returns the static board geometry of the current session.
func (m *Manager) Layout() game.Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Layout()
}

// Config returns the table constants of the current session.
func (m *Manager) Config() game.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Clone()
}

// SessionID identifies the current balance lifetime.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Reset ends the current session and starts a new one with cfg. Balls in
// flight are discarded without settlement. On an invalid cfg the current
// session keeps running.
func (m *Manager) Reset(cfg game.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	prevID := m.sessionID
	prevBalance := m.sim.Balance()
	err := m.startSession(cfg)
	snap := m.snapshotLocked()
	layout := m.board.Layout()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.outMu.Lock()
	m.mu.Unlock()
	m.broadcast(map[string]interface{}{
		"type":    MsgSessionReset,
		"session": snap.SessionID,
		"balance": snap.Balance,
		"layout":  layout,
	})
	m.outMu.Unlock()

	if m.db != nil {
		if _, err := m.db.Exec(`UPDATE table_sessions SET final_balance=$1, ended_at=NOW() WHERE id=$2`, prevBalance, prevID); err != nil {
			log.Printf("[DB] Failed to close session %s: %v", prevID, err)
		}
	}
	log.Printf("[TABLE] Session %s ended with balance %.2f, now %s", prevID, prevBalance, snap.SessionID)
	return nil
}

func (m *Manager) broadcast(message interface{}) {
	m.bmu.RLock()
	b := m.broadcaster
	m.bmu.RUnlock()
	if b != nil {
		b.Broadcast(message)
	}
}

// dispatch fans events out to displays, Redis and the round history.
func (m *Manager) dispatch(snap Snapshot, cost float64, events []game.Event) {
	if len(events) == 0 {
		return
	}

	published := false
	if m.rdb != nil {
		if err := m.publishEvents(snap, events); err != nil {
			log.Printf("[REDIS] Failed to publish %d events: %v", len(events), err)
		} else {
			published = true
		}
	}
	if !published {
		for _, ev := range events {
			m.broadcast(eventMessage(snap.SessionID, ev))
		}
	}

	if m.recorder != nil {
		for _, ev := range events {
			if round, ok := roundFromEvent(snap.SessionID, cost, ev); ok {
				m.recorder.enqueue(round)
			}
		}
	}
}

// ErrNoStats is returned when the table runs without Redis.
var ErrNoStats = errors.New("stats require redis")

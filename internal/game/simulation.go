package game

// EventType identifies what happened during a drop or a tick.
type EventType string

const (
	EventDrop    EventType = "drop"
	EventPayout  EventType = "payout"
	EventLost    EventType = "lost"
	EventBalance EventType = "balance"
)

// Event is emitted outward for displays, recorders and the HUD.
type Event struct {
	Type       EventType `json:"type"`
	Tick       int64     `json:"tick"`
	BallID     int64     `json:"ball_id,omitempty"`
	ZoneIndex  int       `json:"zone_index"`           // -1 unless Type is EventPayout
	Multiplier float64   `json:"multiplier,omitempty"` // payout only
	Amount     float64   `json:"amount,omitempty"`     // balance delta of a drop or payout
	Balance    float64   `json:"balance"`              // balance after the event
	BallTicks  int       `json:"ball_ticks,omitempty"` // ticks the ball was alive, terminal events only
}

// Simulation is the whole state of one table session: static board, balance
// and the active balls in insertion order. It is not safe for concurrent use.
type Simulation struct {
	board   *Board
	cfg     Config
	rng     RandomSource
	balance float64
	balls   []*Ball
	nextID  int64
	tick    int64
}

// NewSimulation starts a session on board with the configured initial balance.
func NewSimulation(board *Board, rng RandomSource) *Simulation {
	cfg := board.Config()
	return &Simulation{
		board:   board,
		cfg:     cfg,
		rng:     rng,
		balance: cfg.InitialBalance,
		balls:   make([]*Ball, 0),
	}
}

func (s *Simulation) Board() *Board {
	return s.board
}

func (s *Simulation) Balance() float64 {
	return s.balance
}

func (s *Simulation) TickCount() int64 {
	return s.tick
}

func (s *Simulation) ActiveCount() int {
	return len(s.balls)
}

// Balls returns read-only copies of the active balls in insertion order.
func (s *Simulation) Balls() []BallView {
	views := make([]BallView, 0, len(s.balls))
	for _, b := range s.balls {
		views = append(views, b.View())
	}
	return views
}

// RequestDrop charges one play and adds a new falling ball. When the balance
// cannot cover the cost nothing happens and ok is false.
func (s *Simulation) RequestDrop() (balance float64, ok bool, events []Event) {
	if s.balance < s.cfg.CostPerPlay {
		return s.balance, false, nil
	}

	s.balance -= s.cfg.CostPerPlay
	s.nextID++
	ball := NewBall(s.nextID, s.cfg, s.rng)
	s.balls = append(s.balls, ball)

	events = []Event{
		{Type: EventDrop, Tick: s.tick, BallID: ball.ID, ZoneIndex: -1, Amount: -s.cfg.CostPerPlay, Balance: s.balance},
		{Type: EventBalance, Tick: s.tick, ZoneIndex: -1, Balance: s.balance},
	}
	return s.balance, true, events
}

// Tick advances every active ball by one step and returns what happened.
// Balls are processed in insertion order. For each ball the peg check runs
// first; the payout check only runs when no peg was in contact this tick;
// the physics step and bounds check only run if the ball did not settle.
func (s *Simulation) Tick() []Event {
	s.tick++
	var events []Event

	next := make([]*Ball, 0, len(s.balls))
	for _, ball := range s.balls {
		events = append(events, s.advance(ball)...)
		if !ball.State.Terminal() {
			next = append(next, ball)
		}
	}
	s.balls = next

	return events
}

// advance runs one ball through a tick and leaves it in a terminal state
// when it settles or falls out.
func (s *Simulation) advance(ball *Ball) []Event {
	handled := false
	if peg, dist, hit := FindPegCollision(ball, s.board.Pegs, s.cfg); hit {
		ResolvePegCollision(ball, peg, dist, s.cfg, s.rng)
		handled = true
	}

	if !handled {
		if zone, hit := FindPayoutZone(ball, s.board.Zones, s.cfg); hit {
			return s.settle(ball, zone)
		}
	}

	StepBall(ball, s.board)

	if ball.Position.Y > s.board.Height {
		ball.State = StateLost
		return []Event{{
			Type:      EventLost,
			Tick:      s.tick,
			BallID:    ball.ID,
			ZoneIndex: -1,
			Balance:   s.balance,
			BallTicks: ball.Ticks,
		}}
	}
	return nil
}

func (s *Simulation) settle(ball *Ball, zone PayoutZone) []Event {
	ball.State = StateSettled
	amount := s.cfg.CostPerPlay * zone.Multiplier
	s.balance += amount

	events := []Event{{
		Type:       EventPayout,
		Tick:       s.tick,
		BallID:     ball.ID,
		ZoneIndex:  zone.Index,
		Multiplier: zone.Multiplier,
		Amount:     amount,
		Balance:    s.balance,
		BallTicks:  ball.Ticks,
	}}
	if amount != 0 {
		events = append(events, Event{Type: EventBalance, Tick: s.tick, ZoneIndex: -1, Balance: s.balance})
	}
	return events
}

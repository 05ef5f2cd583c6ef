package table

import "github.com/playmatatu/plinko/internal/game"

// Message types sent to displays.
const (
	MsgFrame        = "frame"
	MsgEvent        = "table_event"
	MsgSessionReset = "session_reset"
)

// FrameMessage carries the ball positions of one tick.
type FrameMessage struct {
	Type    string          `json:"type"`
	Tick    int64           `json:"tick"`
	Balance float64         `json:"balance"`
	Balls   []game.BallView `json:"balls"`
}

// EventMessage carries one drop, payout, lost or balance event.
type EventMessage struct {
	Type    string     `json:"type"`
	Session string     `json:"session"`
	Event   game.Event `json:"event"`
}

func frameMessage(s Snapshot) FrameMessage {
	return FrameMessage{Type: MsgFrame, Tick: s.Tick, Balance: s.Balance, Balls: s.Balls}
}

func eventMessage(session string, ev game.Event) EventMessage {
	return EventMessage{Type: MsgEvent, Session: session, Event: ev}
}

package game

// BallState is the lifecycle state of a ball on the table.
type BallState string

const (
	StateFalling BallState = "FALLING"
	StateSettled BallState = "SETTLED" // landed in a payout zone
	StateLost    BallState = "LOST"    // fell past the bottom of the playfield
)

// Terminal reports whether the ball has left the active set.
func (s BallState) Terminal() bool {
	return s == StateSettled || s == StateLost
}

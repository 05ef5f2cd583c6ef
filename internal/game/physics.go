package game

import "math"

// StepBall advances a ball by one tick. The order of operations is fixed:
// gravity, horizontal friction, speed clamp, Euler integration, then lane
// containment for the row the ball ends up in.
func StepBall(ball *Ball, board *Board) {
	cfg := board.cfg
	ball.Velocity.Y += cfg.Gravity
	ball.Velocity.X *= cfg.Friction

	if speed := ball.Velocity.Magnitude(); speed > cfg.MaxSpeed {
		ball.Velocity = ball.Velocity.Times(cfg.MaxSpeed / speed)
	}

	ball.Position = ball.Position.Plus(ball.Velocity)
	ball.Ticks++

	if bounds, ok := board.BoundsForRow(board.RowAt(ball.Position.Y)); ok {
		containInLane(ball, bounds, cfg)
	}
}

// containInLane keeps the ball inside the span of its current peg row,
// reflecting and damping the horizontal velocity when the next step would
// carry it past either edge.
func containInLane(ball *Ball, bounds RowBounds, cfg Config) {
	left := bounds.Left - ball.Radius
	right := bounds.Right + ball.Radius

	nextX := ball.Position.X + ball.Velocity.X
	if nextX < left {
		ball.Position.X = left
		ball.Velocity.X = math.Abs(ball.Velocity.X) * cfg.BounceEnergyLoss
	} else if nextX > right {
		ball.Position.X = right
		ball.Velocity.X = -math.Abs(ball.Velocity.X) * cfg.BounceEnergyLoss
	}
}

package game

// FindPegCollision returns the first peg, in lattice order, that the ball
// overlaps.
func FindPegCollision(ball *Ball, pegs []Peg, cfg Config) (Peg, float64, bool) {
	contact := cfg.PegRadius + ball.Radius
	for _, peg := range pegs {
		d := ball.Position.DistanceTo(peg.Position)
		if d < contact {
			return peg, d, true
		}
	}
	return Peg{}, 0, false
}

// ResolvePegCollision reflects the ball off a peg along the contact normal,
// losing energy, and pushes it out of the overlap. Nothing changes when the
// ball is already moving away from the peg; the return value reports whether
// an impulse was applied.
func ResolvePegCollision(ball *Ball, peg Peg, distance float64, cfg Config, rng RandomSource) bool {
	var normal Vec2
	if distance > 0 {
		normal = ball.Position.Minus(peg.Position).Times(1 / distance)
	} else {
		// Concentric: push straight up, against gravity.
		normal = NewVec2(0, -1)
	}

	relativeVelocity := ball.Velocity.Dot(normal)
	if relativeVelocity >= 0 {
		return false
	}

	impulse := -(1 + cfg.BounceEnergyLoss) * relativeVelocity
	ball.Velocity = ball.Velocity.Plus(normal.Times(impulse))
	ball.Velocity.X += floatBetween(rng, -cfg.RandomBounceFactor, cfg.RandomBounceFactor)

	separation := cfg.PegRadius + ball.Radius - distance
	ball.Position = ball.Position.Plus(normal.Times(separation))
	return true
}

// FindPayoutZone returns the first zone, left to right, whose center is within
// half a box width plus the ball radius.
func FindPayoutZone(ball *Ball, zones []PayoutZone, cfg Config) (PayoutZone, bool) {
	reach := cfg.BoxWidth/2 + ball.Radius
	for _, zone := range zones {
		if ball.Position.DistanceTo(zone.Center) < reach {
			return zone, true
		}
	}
	return PayoutZone{}, false
}

package game

// RandomSource is the subset of *rand.Rand the simulation draws from.
type RandomSource interface {
	Float64() float64
}

// Ball is a single falling ball. It carries state only; the physics stepper
// and collision resolver mutate it.
type Ball struct {
	ID       int64     `json:"id"`
	Position Vec2      `json:"position"`
	Velocity Vec2      `json:"velocity"`
	Radius   float64   `json:"radius"`
	State    BallState `json:"state"`
	Ticks    int       `json:"ticks"`
}

// NewBall places a ball at the drop height, jittered around the playfield
// center, with a small random sideways velocity.
func NewBall(id int64, cfg Config, rng RandomSource) *Ball {
	x := cfg.Width/2 + floatBetween(rng, -cfg.DropVariance, cfg.DropVariance)
	vx := (rng.Float64() - 0.5) * cfg.InitialVelocityXRange
	return &Ball{
		ID:       id,
		Position: NewVec2(x, cfg.DropHeight),
		Velocity: NewVec2(vx, cfg.InitialVelocityY),
		Radius:   cfg.BallRadius,
		State:    StateFalling,
	}
}

// BallView is a read-only copy of a ball for renderers.
type BallView struct {
	ID     int64   `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

func (b *Ball) View() BallView {
	return BallView{ID: b.ID, X: b.Position.X, Y: b.Position.Y, Radius: b.Radius}
}

func floatBetween(rng RandomSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

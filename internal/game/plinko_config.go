package game

import (
	"fmt"
	"math"
)

// Config holds every physics, layout and wagering constant of the table.
// Nothing in the core hardcodes these values.
type Config struct {
	// Physics
	Gravity               float64 `yaml:"gravity" json:"gravity"`
	BounceEnergyLoss      float64 `yaml:"bounce_energy_loss" json:"bounce_energy_loss"`
	Friction              float64 `yaml:"friction" json:"friction"`
	MaxSpeed              float64 `yaml:"max_speed" json:"max_speed"`
	RandomBounceFactor    float64 `yaml:"random_bounce_factor" json:"random_bounce_factor"`
	InitialVelocityXRange float64 `yaml:"initial_velocity_x_range" json:"initial_velocity_x_range"`
	InitialVelocityY      float64 `yaml:"initial_velocity_y" json:"initial_velocity_y"`

	// Wagering
	CostPerPlay    float64 `yaml:"cost_per_play" json:"cost_per_play"`
	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance"`

	// Ball and pegs
	BallRadius   float64 `yaml:"ball_radius" json:"ball_radius"`
	PegRadius    float64 `yaml:"peg_radius" json:"peg_radius"`
	PegSpacing   float64 `yaml:"peg_spacing" json:"peg_spacing"`
	Rows         int     `yaml:"rows" json:"rows"`
	TopOffset    float64 `yaml:"top_offset" json:"top_offset"`
	DropHeight   float64 `yaml:"drop_height" json:"drop_height"`
	DropVariance float64 `yaml:"drop_variance" json:"drop_variance"`

	// Payout row
	Multipliers        []float64 `yaml:"multipliers" json:"multipliers"`
	BoxWidth           float64   `yaml:"box_width" json:"box_width"`
	BoxHeight          float64   `yaml:"box_height" json:"box_height"`
	BoxSpacing         float64   `yaml:"box_spacing" json:"box_spacing"`
	PayoutInset        float64   `yaml:"payout_inset" json:"payout_inset"`
	PayoutBottomOffset float64   `yaml:"payout_bottom_offset" json:"payout_bottom_offset"`

	// Playfield
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// DefaultConfig returns the stock 10-row, 9-zone table on a 1600x900 field.
func DefaultConfig() Config {
	return Config{
		Gravity:               0.4,
		BounceEnergyLoss:      0.6,
		Friction:              0.98,
		MaxSpeed:              15,
		RandomBounceFactor:    0.3,
		InitialVelocityXRange: 2,
		InitialVelocityY:      3,

		CostPerPlay:    10,
		InitialBalance: 1000,

		BallRadius:   10,
		PegRadius:    6 * 1.4,
		PegSpacing:   50 * 1.4,
		Rows:         10,
		TopOffset:    100,
		DropHeight:   50,
		DropVariance: 20,

		Multipliers:        []float64{3, 2, 1.5, 1, 0, 1, 1.5, 2, 3},
		BoxWidth:           42 * 1.4,
		BoxHeight:          42 * 1.4,
		BoxSpacing:         8.5 * 1.4,
		PayoutInset:        3 * 1.4,
		PayoutBottomOffset: 106,

		Width:  1600,
		Height: 900,
	}
}

// ConfigError reports a configuration value the layout cannot be built from.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid table config: %s %s", e.Field, e.Reason)
}

type configField struct {
	field string
	value float64
}

// floatFields lists every float constant by its config key.
func (c Config) floatFields() []configField {
	return []configField{
		{"gravity", c.Gravity},
		{"bounce_energy_loss", c.BounceEnergyLoss},
		{"friction", c.Friction},
		{"max_speed", c.MaxSpeed},
		{"random_bounce_factor", c.RandomBounceFactor},
		{"initial_velocity_x_range", c.InitialVelocityXRange},
		{"initial_velocity_y", c.InitialVelocityY},
		{"cost_per_play", c.CostPerPlay},
		{"initial_balance", c.InitialBalance},
		{"ball_radius", c.BallRadius},
		{"peg_radius", c.PegRadius},
		{"peg_spacing", c.PegSpacing},
		{"top_offset", c.TopOffset},
		{"drop_height", c.DropHeight},
		{"drop_variance", c.DropVariance},
		{"box_width", c.BoxWidth},
		{"box_height", c.BoxHeight},
		{"box_spacing", c.BoxSpacing},
		{"payout_inset", c.PayoutInset},
		{"payout_bottom_offset", c.PayoutBottomOffset},
		{"width", c.Width},
		{"height", c.Height},
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the config for values that would leave the geometry or the
// physics undefined. Every float must be finite.
func (c Config) Validate() error {
	for _, p := range c.floatFields() {
		if !finite(p.value) {
			return &ConfigError{Field: p.field, Reason: fmt.Sprintf("must be finite, got %v", p.value)}
		}
	}

	positive := []configField{
		{"gravity", c.Gravity},
		{"max_speed", c.MaxSpeed},
		{"cost_per_play", c.CostPerPlay},
		{"ball_radius", c.BallRadius},
		{"peg_radius", c.PegRadius},
		{"peg_spacing", c.PegSpacing},
		{"box_width", c.BoxWidth},
		{"box_height", c.BoxHeight},
		{"width", c.Width},
		{"height", c.Height},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return &ConfigError{Field: p.field, Reason: fmt.Sprintf("must be positive, got %v", p.value)}
		}
	}

	nonNegative := []configField{
		{"random_bounce_factor", c.RandomBounceFactor},
		{"initial_velocity_x_range", c.InitialVelocityXRange},
		{"initial_balance", c.InitialBalance},
		{"top_offset", c.TopOffset},
		{"drop_height", c.DropHeight},
		{"drop_variance", c.DropVariance},
		{"box_spacing", c.BoxSpacing},
		{"payout_inset", c.PayoutInset},
		{"payout_bottom_offset", c.PayoutBottomOffset},
	}
	for _, p := range nonNegative {
		if !(p.value >= 0) {
			return &ConfigError{Field: p.field, Reason: fmt.Sprintf("must not be negative, got %v", p.value)}
		}
	}

	if !(c.Friction > 0 && c.Friction <= 1) {
		return &ConfigError{Field: "friction", Reason: fmt.Sprintf("must be in (0, 1], got %v", c.Friction)}
	}
	if !(c.BounceEnergyLoss >= 0 && c.BounceEnergyLoss <= 1) {
		return &ConfigError{Field: "bounce_energy_loss", Reason: fmt.Sprintf("must be in [0, 1], got %v", c.BounceEnergyLoss)}
	}
	if c.Rows < 2 {
		return &ConfigError{Field: "rows", Reason: fmt.Sprintf("must be at least 2, got %d", c.Rows)}
	}
	if len(c.Multipliers) == 0 || len(c.Multipliers)%2 == 0 {
		return &ConfigError{Field: "multipliers", Reason: fmt.Sprintf("must have an odd length >= 1, got %d", len(c.Multipliers))}
	}
	for i, m := range c.Multipliers {
		if !(m >= 0) || math.IsInf(m, 0) {
			return &ConfigError{Field: fmt.Sprintf("multipliers[%d]", i), Reason: fmt.Sprintf("must be finite and not negative, got %v", m)}
		}
	}
	return nil
}

// Clone returns a copy that does not share the multiplier slice.
func (c Config) Clone() Config {
	out := c
	out.Multipliers = append([]float64(nil), c.Multipliers...)
	return out
}

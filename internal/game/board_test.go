package game

import (
	"errors"
	"math"
	"testing"
)

func TestPegCountMatchesTriangularRows(t *testing.T) {
	for _, rows := range []int{2, 5, 10, 16} {
		cfg := DefaultConfig()
		cfg.Rows = rows
		board, err := NewBoard(cfg)
		if err != nil {
			t.Fatalf("rows=%d: unexpected error: %v", rows, err)
		}

		want := 0
		for r := 1; r < rows; r++ {
			want += r + 1
		}
		if len(board.Pegs) != want {
			t.Errorf("rows=%d: got %d pegs, want %d", rows, len(board.Pegs), want)
		}
	}
}

func TestPegRowsAreCenteredAndSpaced(t *testing.T) {
	cfg := DefaultConfig()
	board, err := NewBoard(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	centerX := cfg.Width / 2
	for _, peg := range board.Pegs {
		wantY := cfg.TopOffset + float64(peg.Row)*cfg.PegSpacing
		if math.Abs(peg.Position.Y-wantY) > 1e-9 {
			t.Errorf("peg in row %d at y=%.2f, want %.2f", peg.Row, peg.Position.Y, wantY)
		}
	}

	for row := 1; row < cfg.Rows; row++ {
		bounds, ok := board.BoundsForRow(row)
		if !ok {
			t.Fatalf("row %d has no bounds", row)
		}
		halfSpan := float64(row) / 2 * cfg.PegSpacing
		if math.Abs(bounds.Left-(centerX-halfSpan)) > 1e-9 || math.Abs(bounds.Right-(centerX+halfSpan)) > 1e-9 {
			t.Errorf("row %d bounds = [%.2f, %.2f], want [%.2f, %.2f]",
				row, bounds.Left, bounds.Right, centerX-halfSpan, centerX+halfSpan)
		}
	}

	if _, ok := board.BoundsForRow(0); ok {
		t.Errorf("row 0 should have no bounds")
	}
	if _, ok := board.BoundsForRow(cfg.Rows); ok {
		t.Errorf("row %d should have no bounds", cfg.Rows)
	}
}

func TestPegsAreRowMajorLeftToRight(t *testing.T) {
	board, err := NewBoard(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(board.Pegs); i++ {
		prev, cur := board.Pegs[i-1], board.Pegs[i]
		if cur.Row < prev.Row {
			t.Fatalf("peg %d row %d comes after row %d", i, cur.Row, prev.Row)
		}
		if cur.Row == prev.Row && cur.Position.X <= prev.Position.X {
			t.Errorf("peg %d x=%.2f not right of previous x=%.2f", i, cur.Position.X, prev.Position.X)
		}
	}
}

func TestPayoutZonesAlignUnderBottomRow(t *testing.T) {
	cfg := DefaultConfig()
	board, err := NewBoard(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.Zones) != len(cfg.Multipliers) {
		t.Fatalf("got %d zones, want %d", len(board.Zones), len(cfg.Multipliers))
	}

	bottom := board.Rows[cfg.Rows-1]
	firstX := bottom.Left + cfg.BoxWidth/2 + cfg.PayoutInset
	if math.Abs(board.Zones[0].Center.X-firstX) > 1e-9 {
		t.Errorf("first zone x=%.2f, want %.2f", board.Zones[0].Center.X, firstX)
	}

	bottomPegY := cfg.TopOffset + float64(cfg.Rows-1)*cfg.PegSpacing
	for i, z := range board.Zones {
		if z.Index != i {
			t.Errorf("zone %d has index %d", i, z.Index)
		}
		if z.Multiplier != cfg.Multipliers[i] {
			t.Errorf("zone %d multiplier %.1f, want %.1f", i, z.Multiplier, cfg.Multipliers[i])
		}
		if z.Center.Y <= bottomPegY {
			t.Errorf("zone %d at y=%.2f is not below the bottom peg row y=%.2f", i, z.Center.Y, bottomPegY)
		}
		if i > 0 {
			gap := z.Center.X - board.Zones[i-1].Center.X
			if math.Abs(gap-(cfg.BoxWidth+cfg.BoxSpacing)) > 1e-9 {
				t.Errorf("zone %d spacing %.2f, want %.2f", i, gap, cfg.BoxWidth+cfg.BoxSpacing)
			}
		}
	}

	center := board.Zones[len(board.Zones)/2]
	if center.Multiplier != 0 {
		t.Errorf("center zone pays x%.1f, want x0", center.Multiplier)
	}
	if board.Zones[0].Label != "x3" || board.Zones[2].Label != "x1.5" {
		t.Errorf("unexpected labels %q, %q", board.Zones[0].Label, board.Zones[2].Label)
	}
}

func TestLayoutIsACopy(t *testing.T) {
	board, err := NewBoard(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	layout := board.Layout()
	layout.Pegs[0].Position.X = -1
	layout.Zones[0].Multiplier = 100

	if board.Pegs[0].Position.X == -1 || board.Zones[0].Multiplier == 100 {
		t.Errorf("mutating the layout changed the board")
	}
}

func TestNewBoardRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty multipliers", func(c *Config) { c.Multipliers = nil }, "multipliers"},
		{"even multipliers", func(c *Config) { c.Multipliers = []float64{1, 0, 0, 1} }, "multipliers"},
		{"negative multiplier", func(c *Config) { c.Multipliers = []float64{1, -1, 1} }, "multipliers[1]"},
		{"zero spacing", func(c *Config) { c.PegSpacing = 0 }, "peg_spacing"},
		{"negative ball radius", func(c *Config) { c.BallRadius = -3 }, "ball_radius"},
		{"one row", func(c *Config) { c.Rows = 1 }, "rows"},
		{"friction above one", func(c *Config) { c.Friction = 1.2 }, "friction"},
		{"bounce loss above one", func(c *Config) { c.BounceEnergyLoss = 1.5 }, "bounce_energy_loss"},
		{"zero playfield", func(c *Config) { c.Height = 0 }, "height"},
		{"NaN gravity", func(c *Config) { c.Gravity = math.NaN() }, "gravity"},
		{"infinite gravity", func(c *Config) { c.Gravity = math.Inf(1) }, "gravity"},
		{"NaN friction", func(c *Config) { c.Friction = math.NaN() }, "friction"},
		{"NaN bounce loss", func(c *Config) { c.BounceEnergyLoss = math.NaN() }, "bounce_energy_loss"},
		{"NaN random bounce", func(c *Config) { c.RandomBounceFactor = math.NaN() }, "random_bounce_factor"},
		{"NaN drop variance", func(c *Config) { c.DropVariance = math.NaN() }, "drop_variance"},
		{"NaN box spacing", func(c *Config) { c.BoxSpacing = math.NaN() }, "box_spacing"},
		{"NaN payout inset", func(c *Config) { c.PayoutInset = math.NaN() }, "payout_inset"},
		{"NaN top offset", func(c *Config) { c.TopOffset = math.NaN() }, "top_offset"},
		{"negative top offset", func(c *Config) { c.TopOffset = -1 }, "top_offset"},
		{"infinite drop height", func(c *Config) { c.DropHeight = math.Inf(1) }, "drop_height"},
		{"NaN initial vy", func(c *Config) { c.InitialVelocityY = math.NaN() }, "initial_velocity_y"},
		{"infinite payout offset", func(c *Config) { c.PayoutBottomOffset = math.Inf(-1) }, "payout_bottom_offset"},
		{"infinite max speed", func(c *Config) { c.MaxSpeed = math.Inf(1) }, "max_speed"},
		{"infinite width", func(c *Config) { c.Width = math.Inf(1) }, "width"},
		{"NaN multiplier", func(c *Config) { c.Multipliers = []float64{1, math.NaN(), 1} }, "multipliers[1]"},
		{"infinite multiplier", func(c *Config) { c.Multipliers = []float64{math.Inf(1)} }, "multipliers[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			board, err := NewBoard(cfg)
			if err == nil {
				t.Fatalf("expected error, got board with %d pegs", len(board.Pegs))
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("error field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestSingleZoneBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Multipliers = []float64{2}
	board, err := NewBoard(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Zones) != 1 || board.Zones[0].Multiplier != 2 {
		t.Errorf("unexpected zones: %+v", board.Zones)
	}
}

func TestRowAt(t *testing.T) {
	cfg := DefaultConfig()
	board := newTestBoard(t, cfg)

	tests := []struct {
		y    float64
		want int
	}{
		{cfg.TopOffset - 1, -1},
		{cfg.TopOffset, 0},
		{cfg.TopOffset + cfg.PegSpacing, 1},
		{cfg.TopOffset + 3.5*cfg.PegSpacing, 3},
		{cfg.TopOffset + float64(cfg.Rows)*cfg.PegSpacing, cfg.Rows},
	}
	for _, tt := range tests {
		if got := board.RowAt(tt.y); got != tt.want {
			t.Errorf("RowAt(%.1f) = %d, want %d", tt.y, got, tt.want)
		}
	}
}

package game

import (
	"fmt"
	"math"
	"strconv"
)

// Peg is a fixed obstacle in the lattice.
type Peg struct {
	Row      int  `json:"row"`
	Position Vec2 `json:"position"`
}

// RowBounds is the horizontal span of one peg row, used for lane containment.
type RowBounds struct {
	Row   int     `json:"row"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// PayoutZone is a settling box in the bottom row.
type PayoutZone struct {
	Index      int     `json:"index"`
	Center     Vec2    `json:"center"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// Board is the static geometry of the table. It is never mutated after
// NewBoard returns.
type Board struct {
	Pegs      []Peg
	Rows      []RowBounds // indexed by row number; Rows[0] is unused
	Zones     []PayoutZone
	PegRadius float64
	Width     float64
	Height    float64

	cfg Config
}

// Layout is the read-only geometry handed to renderers.
type Layout struct {
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	PegRadius   float64      `json:"peg_radius"`
	BallRadius  float64      `json:"ball_radius"`
	CostPerPlay float64      `json:"cost_per_play"`
	Pegs        []Peg        `json:"pegs"`
	Zones       []PayoutZone `json:"zones"`
}

// NewBoard validates cfg and lays out the peg lattice and payout row.
func NewBoard(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		Rows:      make([]RowBounds, cfg.Rows),
		PegRadius: cfg.PegRadius,
		Width:     cfg.Width,
		Height:    cfg.Height,
		cfg:       cfg.Clone(),
	}

	centerX := cfg.Width / 2
	for row := 1; row < cfg.Rows; row++ {
		left := math.Inf(1)
		right := math.Inf(-1)
		y := cfg.TopOffset + float64(row)*cfg.PegSpacing
		for col := 0; col <= row; col++ {
			x := centerX + (float64(col)-float64(row)/2)*cfg.PegSpacing
			b.Pegs = append(b.Pegs, Peg{Row: row, Position: NewVec2(x, y)})
			left = math.Min(left, x)
			right = math.Max(right, x)
		}
		b.Rows[row] = RowBounds{Row: row, Left: left, Right: right}
	}

	bottom := b.Rows[cfg.Rows-1]
	y := cfg.Height - cfg.PayoutBottomOffset
	startX := bottom.Left + cfg.BoxWidth/2 + cfg.PayoutInset
	for i, m := range cfg.Multipliers {
		x := startX + float64(i)*cfg.BoxWidth + float64(i)*cfg.BoxSpacing
		b.Zones = append(b.Zones, PayoutZone{
			Index:      i,
			Center:     NewVec2(x, y),
			Width:      cfg.BoxWidth,
			Height:     cfg.BoxHeight,
			Multiplier: m,
			Label:      multiplierLabel(m),
		})
	}

	return b, nil
}

// Config returns a copy of the config the board was built from.
func (b *Board) Config() Config {
	return b.cfg.Clone()
}

// BoundsForRow returns the lane bounds of a row, or false if the row has no pegs.
func (b *Board) BoundsForRow(row int) (RowBounds, bool) {
	if row < 1 || row >= len(b.Rows) {
		return RowBounds{}, false
	}
	return b.Rows[row], true
}

// RowAt maps a vertical position to a lattice row index. The result may be
// outside the range of rows that have pegs.
func (b *Board) RowAt(y float64) int {
	return int(math.Floor((y - b.cfg.TopOffset) / b.cfg.PegSpacing))
}

// Layout copies the static geometry for a renderer.
func (b *Board) Layout() Layout {
	return Layout{
		Width:       b.Width,
		Height:      b.Height,
		PegRadius:   b.PegRadius,
		BallRadius:  b.cfg.BallRadius,
		Pegs:        append([]Peg(nil), b.Pegs...),
		Zones:       append([]PayoutZone(nil), b.Zones...),
		CostPerPlay: b.cfg.CostPerPlay,
	}
}

func multiplierLabel(m float64) string {
	return fmt.Sprintf("x%s", strconv.FormatFloat(m, 'f', -1, 64))
}

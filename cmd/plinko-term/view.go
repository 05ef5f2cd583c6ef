package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/plinko/internal/game"
)

// statusRows is the space kept below the board for the status line.
const statusRows = 2

var (
	pegStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	ballStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	zoneStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	emptyStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// projector maps board pixels onto terminal cells.
type projector struct {
	sx, sy float64
	cols   int
	rows   int
}

func newProjector(layout game.Layout, cols, rows int) projector {
	rows -= statusRows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return projector{
		sx:   float64(cols) / layout.Width,
		sy:   float64(rows) / layout.Height,
		cols: cols,
		rows: rows,
	}
}

// cell returns the cell of a board point and whether it is on screen.
func (p projector) cell(v game.Vec2) (int, int, bool) {
	x := int(v.X * p.sx)
	y := int(v.Y * p.sy)
	if x < 0 || y < 0 || x >= p.cols || y >= p.rows {
		return x, y, false
	}
	return x, y, true
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// draw renders one frame of the table.
func draw(s tcell.Screen, layout game.Layout, sim *game.Simulation, status string) {
	cols, rows := s.Size()
	p := newProjector(layout, cols, rows)

	s.Clear()

	for _, peg := range layout.Pegs {
		if x, y, ok := p.cell(peg.Position); ok {
			s.SetContent(x, y, '+', nil, pegStyle)
		}
	}

	for _, z := range layout.Zones {
		x, y, ok := p.cell(z.Center)
		if !ok {
			continue
		}
		style := zoneStyle
		if z.Multiplier == 0 {
			style = emptyStyle
		}
		drawText(s, x-len(z.Label)/2, y, z.Label, style)
	}

	for _, b := range sim.Balls() {
		if x, y, ok := p.cell(game.NewVec2(b.X, b.Y)); ok {
			s.SetContent(x, y, 'O', nil, ballStyle)
		}
	}

	line := fmt.Sprintf("balance %.2f  cost %.2f  balls %d  [space] drop  [r] reset  [q] quit",
		sim.Balance(), layout.CostPerPlay, sim.ActiveCount())
	drawText(s, 0, rows-2, line, statusStyle)
	drawText(s, 0, rows-1, status, statusStyle)

	s.Show()
}

// describe turns a table event into a status line.
func describe(ev game.Event) (string, bool) {
	switch ev.Type {
	case game.EventPayout:
		return fmt.Sprintf("ball %d landed in x%g: +%.2f", ev.BallID, ev.Multiplier, ev.Amount), true
	case game.EventLost:
		return fmt.Sprintf("ball %d left the board", ev.BallID), true
	}
	return "", false
}

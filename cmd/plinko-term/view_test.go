package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/plinko/internal/game"
)

func TestProjectorCell(t *testing.T) {
	layout := game.Layout{Width: 1600, Height: 900}
	p := newProjector(layout, 160, 92)

	tests := []struct {
		v      game.Vec2
		wantX  int
		wantY  int
		inside bool
	}{
		{game.NewVec2(0, 0), 0, 0, true},
		{game.NewVec2(800, 450), 80, 45, true},
		{game.NewVec2(1599, 899), 159, 89, true},
		{game.NewVec2(1600, 10), 160, 1, false},
		{game.NewVec2(-5, 10), 0, 1, true},
		{game.NewVec2(-20, 10), -2, 1, false},
	}
	for _, tt := range tests {
		x, y, ok := p.cell(tt.v)
		if x != tt.wantX || y != tt.wantY || ok != tt.inside {
			t.Errorf("cell(%v) = (%d, %d, %v), want (%d, %d, %v)", tt.v, x, y, ok, tt.wantX, tt.wantY, tt.inside)
		}
	}
}

func TestDescribe(t *testing.T) {
	s, ok := describe(game.Event{Type: game.EventPayout, BallID: 4, Multiplier: 1.5, Amount: 15})
	if !ok || !strings.Contains(s, "x1.5") || !strings.Contains(s, "+15.00") {
		t.Errorf("payout = %q, %v", s, ok)
	}
	if _, ok := describe(game.Event{Type: game.EventDrop}); ok {
		t.Error("drop events should not change the status line")
	}
}

func TestDrawOnSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(160, 50)

	board, err := game.NewBoard(game.DefaultConfig())
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	sim := game.NewSimulation(board, fixedSource(0.5))
	sim.RequestDrop()
	sim.Tick()

	draw(screen, board.Layout(), sim, "ready")

	w, h := screen.Size()
	var pegs, balls int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			switch r {
			case '+':
				pegs++
			case 'O':
				balls++
			}
		}
	}
	if pegs == 0 {
		t.Error("no pegs drawn")
	}
	if balls != 1 {
		t.Errorf("balls drawn = %d, want 1", balls)
	}
	if w != 160 {
		t.Errorf("width = %d, want 160", w)
	}
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

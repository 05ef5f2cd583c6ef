package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/game"
)

type app struct {
	screen tcell.Screen
	cfg    *config.Config
	sim    *game.Simulation
	layout game.Layout
	status string
}

func newSimulation(cfg *config.Config) (*game.Simulation, error) {
	board, err := game.NewBoard(cfg.Table)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return game.NewSimulation(board, rand.New(rand.NewSource(seed))), nil
}

func (a *app) reset() error {
	sim, err := newSimulation(a.cfg)
	if err != nil {
		return err
	}
	a.sim = sim
	a.layout = sim.Board().Layout()
	a.status = "new session"
	return nil
}

// handleInput returns false when the user quits.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			if _, ok, _ := a.sim.RequestDrop(); !ok {
				a.status = "not enough balance to drop"
			}
		case 'r':
			if err := a.reset(); err != nil {
				a.status = err.Error()
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) run(tickRate int) {
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil {
				return
			}
			if !a.handleInput(ev) {
				return
			}

		case <-ticker.C:
			for _, ev := range a.sim.Tick() {
				if s, ok := describe(ev); ok {
					a.status = s
				}
			}
			draw(a.screen, a.layout, a.sim, a.status)
		}
	}
}

func main() {
	cfg := config.Load()

	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 60
	}

	a := &app{cfg: cfg}
	if err := a.reset(); err != nil {
		log.Fatalf("Invalid table configuration: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	a.screen = screen

	a.run(cfg.TickRateHz)
	screen.Fini()
}

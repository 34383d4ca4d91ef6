package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndrandal/price-simulator/internal/config"
	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/format"
	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/simulation"
	"github.com/ndrandal/price-simulator/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// The terminal is owned by the UI; logs go to a file or nowhere.
	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "pricetui")
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	} else {
		log.SetOutput(io.Discard)
	}

	rng := engine.NewRNG(cfg.Seed)
	sel, err := engine.NewSelector(rng, market.AllEvents())
	if err != nil {
		fmt.Fprintf(os.Stderr, "event selector: %v\n", err)
		os.Exit(1)
	}
	log.Printf("PRNG seed: %d", rng.Seed())

	ctrl := simulation.New(sel,
		simulation.WithInitialPrice(cfg.InitialPrice),
		simulation.WithHistoryLimit(cfg.HistoryLimit),
	)
	ctrl.Subscribe(func(ch simulation.Change) {
		log.Printf("%s change rev=%d price=%.2f profit=%.1f", ch.Kind, ch.State.Revision, ch.State.Price, ch.State.Profit)
	})

	model := tui.NewModel(ctrl, format.ForLanguage(cfg.Lang))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

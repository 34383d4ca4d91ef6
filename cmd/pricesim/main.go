package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndrandal/price-simulator/internal/api"
	"github.com/ndrandal/price-simulator/internal/config"
	"github.com/ndrandal/price-simulator/internal/engine"
	"github.com/ndrandal/price-simulator/internal/format"
	"github.com/ndrandal/price-simulator/internal/market"
	"github.com/ndrandal/price-simulator/internal/session"
	"github.com/ndrandal/price-simulator/internal/simulation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("price simulator starting")

	// Context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	// PRNG
	rng := engine.NewRNG(cfg.Seed)
	log.Printf("PRNG seed: %d", rng.Seed())

	// Event catalog
	sel, err := engine.NewSelector(rng, market.AllEvents())
	if err != nil {
		log.Fatalf("event selector: %v", err)
	}
	log.Printf("loaded %d market events", sel.Len())

	// Simulation
	ctrl := simulation.New(sel,
		simulation.WithInitialPrice(cfg.InitialPrice),
		simulation.WithHistoryLimit(cfg.HistoryLimit),
	)
	ctrl.Subscribe(func(ch simulation.Change) {
		s := ch.State
		log.Printf("%s change rev=%d price=%.2f demand=%.1f profit=%.1f", ch.Kind, s.Revision, s.Price, s.Demand, s.Profit)
	})

	// Session manager
	mgr := session.NewManager(cfg.SendBufferSize)
	ctrl.Subscribe(mgr.Publish)

	// HTTP/WebSocket server
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", session.Handler(mgr, ctrl))

	// REST API
	apiServer := api.NewServer(ctrl, mgr, format.ForLanguage(cfg.Lang), rng.Seed())
	apiServer.Register(mux)
	log.Printf("session %s", apiServer.SessionID())

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("WebSocket server listening on ws://%s/feed", addr)
	log.Printf("REST API: http://%s/api/state", addr)
	log.Printf("Health check: http://%s/health", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	log.Println("price simulator stopped")
}

package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/orbitable/orbitable-web/config"
	"github.com/orbitable/orbitable-web/server"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	config.InitConfig()
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "Server port")
	scenarioName := flag.String("scenario", cfg.Scenario, "Built-in scenario name or JSON scenario file")
	dt := flag.Float64("dt", cfg.TimeStep, "Simulated seconds per tick (0 uses the scenario's dt)")
	flag.Parse()

	cfg.Port = *port
	cfg.Scenario = *scenarioName
	cfg.TimeStep = *dt

	log.Printf("Starting Orbitable server on port %d", cfg.Port)

	// Create simulation server
	simServer := server.NewServer(cfg)
	go simServer.Run()

	// Serve static files from the static subdirectory
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(fsys)))

	// WebSocket endpoint
	mux.HandleFunc("/ws", simServer.HandleWebSocket)

	// Snapshot endpoints
	mux.HandleFunc("/api/state", simServer.HandleState)
	mux.HandleFunc("/api/scenarios", simServer.HandleScenarios)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running at http://localhost%s", addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Shutting down server (signal: %v)...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop the tick loop and disconnect viewers
	simServer.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

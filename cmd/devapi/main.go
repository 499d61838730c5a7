package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smsDashboard/internal/config"
	"smsDashboard/internal/db"
	"smsDashboard/internal/devapi"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()
	if v, err := db.Version(d); err == nil {
		log.Printf("Database schema version %d", v)
	}

	api := devapi.NewServer(d, cfg, log.Default())

	// Start HTTP
	shutdownHTTP, err := api.Start(cfg.DevAPI.Address)
	if err != nil {
		log.Fatalf("start http: %v", err)
	}
	log.Printf("HTTP API listening on %s", cfg.DevAPI.Address)

	// Start gRPC health
	addr, shutdownGRPC, err := devapi.StartHealth(cfg.DevAPI.GRPCAddress, api.Verifier())
	if err != nil {
		log.Fatalf("start grpc: %v", err)
	}
	log.Printf("gRPC health listening on %s", addr)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go api.PurgeSessions(ctx, time.Hour)
	if cfg.DevAPI.SimulatorInterval > 0 {
		sim := devapi.NewSimulator(api.Metrics, log.Default(), time.Now().UnixNano())
		go sim.Run(ctx, cfg.DevAPI.SimulatorInterval)
		log.Printf("Delivery simulator ticking every %s", cfg.DevAPI.SimulatorInterval)
	}

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownHTTP(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := shutdownGRPC(shutdownCtx); err != nil {
		log.Printf("grpc shutdown error: %v", err)
	}
}

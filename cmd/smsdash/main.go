package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smsDashboard/internal/client"
	"smsDashboard/internal/config"
	"smsDashboard/internal/dashboard"
	"smsDashboard/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	api, err := client.New(client.Options{
		BaseURL:         cfg.API.BaseURL,
		WithCredentials: cfg.API.WithCredentials,
		Timeout:         cfg.API.Timeout,
		SOCKS5:          cfg.API.SOCKS5,
	})
	if err != nil {
		log.Fatalf("api client: %v", err)
	}
	log.Printf("Using SMS platform API at %s", api.BaseURL())

	ctrl := dashboard.NewController(api, dashboard.Options{
		Logger:               log.Default(),
		ClearOnLogoutFailure: cfg.Session.ClearOnLogoutFailure,
	})

	// Probe for an existing session; failure leaves the login view.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = ctrl.CheckSession(ctx)
	cancel()

	ui, err := web.NewServer(ctrl, log.Default())
	if err != nil {
		log.Fatalf("web: %v", err)
	}
	shutdown, err := ui.Start(cfg.Web.Address)
	if err != nil {
		log.Fatalf("start web: %v", err)
	}
	log.Printf("Dashboard listening on http://%s", cfg.Web.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"pcbridge/internal/api"
	"pcbridge/internal/api/handlers"
	"pcbridge/internal/api/middleware"
	"pcbridge/internal/pkg/logger"
	"pcbridge/internal/platform/config"
	"pcbridge/internal/platform/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Remote store client (the only external dependency)
	storeClient := store.New(cfg.Airtable)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(storeClient)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(storeClient)

	// Middleware
	requestLogger := middleware.NewRequestLogger()

	// Router
	deps := &api.Dependencies{
		HealthHandler:      healthHandler,
		WebhookHandler:     webhookHandler,
		DiagnosticsHandler: diagnosticsHandler,
		RequestLogger:      requestLogger,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"floreboard/internal/auth"
	"floreboard/internal/config"
	"floreboard/internal/design"
	"floreboard/internal/events"
	"floreboard/internal/inventory"
	"floreboard/internal/media"
	"floreboard/internal/server"
	"floreboard/internal/settings"
	"floreboard/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	var archiver media.Archiver
	if cfg.Media.Bucket != "" && cfg.Media.Region != "" {
		archiver, err = media.NewArchiver(ctx, media.Config{
			Bucket:         cfg.Media.Bucket,
			Region:         cfg.Media.Region,
			Endpoint:       cfg.Media.Endpoint,
			PublicURL:      cfg.Media.PublicURL,
			KeyPrefix:      cfg.Media.KeyPrefix,
			ForcePathStyle: cfg.Media.ForcePathStyle,
		})
		if err != nil {
			log.Fatalf("failed to init preview archiver: %v", err)
		}
	} else {
		archiver, err = media.NewLocalArchiver("")
		if err != nil {
			log.Fatalf("failed to init local preview storage: %v", err)
		}
		log.Println("preview archiver: using local temp storage (S3 config missing)")
	}

	ledger, err := inventory.NewLedger(ctx, store, cfg.SeedInventory)
	if err != nil {
		log.Fatalf("failed to init inventory: %v", err)
	}

	history, err := design.NewHistory(ctx, store, ledger)
	if err != nil {
		log.Fatalf("failed to init design history: %v", err)
	}

	settingsService := settings.NewService(store)
	orchestrator := design.NewOrchestrator(settingsService, ledger, store)
	eventBroker := events.NewBroker()

	sessions := auth.SessionManager{Secret: []byte(cfg.SessionSecret)}

	handlers := server.Handlers{
		Inventory: inventory.NewHandler(ledger, settingsService),
		Design:    design.NewHandler(orchestrator, history, settingsService, archiver, eventBroker),
		Settings:  settings.NewHandler(settingsService, store),
		Auth:      auth.Handler{Store: store, Sessions: sessions},
		Session:   auth.Middleware{Sessions: sessions},
	}

	srv := server.New(cfg.Port, handlers)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Println("shutting down server...")
		if err := srv.Close(); err != nil {
			log.Printf("server close error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

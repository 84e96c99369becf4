// Command seed loads the starter inventory into the configured store,
// replacing whatever the inventory slot currently holds.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"

	"floreboard/internal/config"
	"floreboard/internal/inventory"
	"floreboard/internal/storage"
)

func main() {
	force := flag.Bool("force", false, "overwrite existing inventory")
	flag.Parse()

	cfg := config.FromEnv()

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	if !*force {
		if _, err := store.GetSlot(ctx, storage.SlotInventory); err == nil {
			log.Fatal("inventory already present; re-run with -force to overwrite")
		}
	}

	flowers := inventory.StarterInventory()
	payload, err := json.Marshal(flowers)
	if err != nil {
		log.Fatalf("failed to encode inventory: %v", err)
	}
	if err := store.SetSlot(ctx, storage.SlotInventory, payload); err != nil {
		log.Fatalf("failed to write inventory: %v", err)
	}

	log.Printf("seeded %d flowers", len(flowers))
}

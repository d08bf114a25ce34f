package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/voicegenapp/api-voicegen/internal/config"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/repository"
)

// Seeds demo ledger records into Firestore for local development.
func main() {
	count := flag.Int("count", 3, "number of demo accounts to create")
	prefix := flag.String("prefix", "demo-device", "device id prefix")
	flag.Parse()

	cfg := config.Load()

	ctx := context.Background()
	remote, err := repository.NewRemoteLedger(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
	if err != nil {
		log.Fatalf("❌ Failed to initialize remote ledger: %v", err)
	}
	defer remote.Close()

	log.Printf("🌱 Seeding %d demo accounts...", *count)

	for i := 1; i <= *count; i++ {
		deviceID := fmt.Sprintf("%s-%d", *prefix, i)

		// Check if exists
		if _, err := remote.Read(ctx, deviceID); err == nil {
			log.Printf("⏭️  Account already exists: %s", deviceID)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("❌ Failed to check %s: %v", deviceID, err)
		}

		rec := model.NewLedgerRecord(deviceID, fmt.Sprintf("Demo User %d", i))
		if err := remote.Create(ctx, rec); err != nil {
			log.Printf("❌ Failed to create %s: %v", deviceID, err)
		} else {
			log.Printf("✅ Created account: %s | Credits: %d", deviceID, rec.Credits)
		}
	}

	log.Println("🎉 Seeding complete")
}

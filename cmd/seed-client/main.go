// Seeds an API client row. Run once per integrating client:
//
//	go run ./cmd/seed-client -name rangefinder -admin
//
// The generated API key is printed exactly once; only its bcrypt hash is
// stored.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/database"
)

func main() {
	name := flag.String("name", "", "client name (required)")
	admin := flag.Bool("admin", false, "grant admin access")
	key := flag.String("key", "", "API key to use (random when empty)")
	flag.Parse()

	if *name == "" {
		log.Fatal("[SEED] -name is required")
	}

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[SEED] Database connection failed: %v", err)
	}
	defer db.Close()

	apiKey := *key
	if apiKey == "" {
		b := make([]byte, 24)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("[SEED] key generation failed: %v", err)
		}
		apiKey = hex.EncodeToString(b)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEED] hashing failed: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO api_clients (name, key_hash, is_admin, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (name) DO UPDATE SET key_hash = EXCLUDED.key_hash, is_admin = EXCLUDED.is_admin, is_active = TRUE
	`, *name, string(hash), *admin)
	if err != nil {
		log.Fatalf("[SEED] upsert failed: %v", err)
	}

	fmt.Printf("Client %q ready (admin=%v)\nAPI key: %s\n", *name, *admin, apiKey)
}

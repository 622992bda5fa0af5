package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/birrama/careers/internal/auth"
	"github.com/birrama/careers/internal/config"
)

// gmailtoken performs the one-time OAuth consent for the gmail mail provider and writes
// GMAIL_TOKEN_FILE, which the API server then reads without prompting.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using environment variables")
	}
	cfg := config.Load()

	if err := auth.Authorize(context.Background(), cfg.GmailCredentialsFile, cfg.GmailTokenFile, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("❌ Gmail authorization failed: %v", err)
	}
	log.Println("✅ Gmail token saved")
}

package main

import (
	"log"

	"github.com/joho/godotenv"

	"researchmate/internal/api"
	"researchmate/internal/config"
	"researchmate/internal/providers"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load("")
	mgr, err := providers.NewManager(cfg)
	if err != nil {
		log.Fatalf("provider setup: %v", err)
	}

	srv := api.NewServer(cfg, mgr)
	log.Printf("researchmate api listening on %s (providers: %s)", cfg.APIAddr, cfg.Providers)
	if err := srv.Run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

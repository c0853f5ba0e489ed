package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/config"
	"github.com/K-a-t-i/Flight-Weather-Analyser-Chatbot/internal/flyweather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	s := flyweather.New(cfg)
	defer s.Logger.Sync()

	s.Logger.Infof("flyweather listening on %v", cfg.ListenAddr)
	s.Start()
}

package main

import (
	"flag"
	"log"
	"os"

	"TradeRelay/internal/di"
	"TradeRelay/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	requirementsPath := flag.String("requirements", "", "demo requirements manifest (overrides config)")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *requirementsPath != "" {
		cfg.Demo.RequirementsPath = *requirementsPath
	}

	log.Printf("env=%s backend=%s", cfg.Environment, cfg.Backend.Type)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("tradier: base=%s account=%s", cfg.Tradier.BaseURL, cfg.Tradier.AccountID)
	if cfg.Backend.Type == "kafka" {
		log.Printf("kafka: brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/config"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/telegram"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Bot.Token == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	kv, err := cfg.OpenStorage()
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer kv.Close()

	api := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := telegram.New(ctx, cfg.Bot.Token, api, kv)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Printf("Bot starting, API at %s, %s storage", cfg.APIURL, cfg.Storage.Driver)
	b.Start(ctx)

	log.Println("Bot stopped")
}

package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/config"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/console"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/dispatch"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load config: %v", err)
	}

	kv, err := cfg.OpenStorage()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer kv.Close()

	api := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := dispatch.NewLoop(ctx, dispatch.DefaultBuffer)
	go loop.Run()

	view := console.NewView(os.Stdout)
	store := storage.NewSessionStore(kv, "console")
	ctrl := controller.New(api, store, view, loop)

	if err := console.Run(ctx, os.Stdin, os.Stdout, loop, ctrl); err != nil && err != context.Canceled {
		log.SetOutput(os.Stderr)
		log.Printf("Console stopped: %v", err)
	}

	stop()
	<-loop.Done()
	loop.Wait()
}

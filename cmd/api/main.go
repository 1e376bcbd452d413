package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"statwizard/adapters/excel"
	"statwizard/api"
	"statwizard/internal/config"
	"statwizard/internal/ingest"
	"statwizard/internal/privacy"
	"statwizard/internal/profile"
	"statwizard/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load configuration: %v", err)
	}

	var reporter telemetry.Reporter
	if cfg.Telemetry.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sink, err := telemetry.OpenPostgresSink(ctx, cfg.Telemetry.PostgresDSN)
		cancel()
		if err != nil {
			log.Printf("[main] telemetry database unavailable, falling back to log sink: %v", err)
			reporter = telemetry.NewLogSink()
		} else {
			defer sink.Close()
			reporter = sink
		}
	} else {
		reporter = telemetry.NewLogSink()
	}
	dispatcher := telemetry.NewDispatcher(reporter)

	parser := excel.NewParser()
	validator := ingest.NewValidator(dispatcher)
	pipeline := ingest.NewPipeline(parser, validator, dispatcher)
	detector := privacy.NewDetector(dispatcher)
	checker := privacy.NewChecker(pipeline, detector, dispatcher)
	classifier := profile.NewClassifier(profile.DefaultConfig())

	app := api.NewApp(api.Config{MaxConcurrentParses: cfg.Ingest.MaxConcurrentParses},
		pipeline, validator, checker, classifier)

	if err := app.Serve(cfg.Server.Port); err != nil {
		log.Fatalf("[main] server failed: %v", err)
	}
}

package main

import (
	"log"

	"github.com/joho/godotenv"

	"crankview/adapters/excel"
	"crankview/adapters/rng"
	"crankview/adapters/stats/engine"
	"crankview/app"
	"crankview/internal"
	"crankview/internal/config"
	"crankview/ui"
)

func main() {
	// Load .env file if present (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := internal.NewDefaultLogger()

	projects := app.NewProjectService(logger, cfg.Data.DefaultSentinels)
	plots := app.NewPlotService(projects, logger)
	statsEngine := engine.New(rng.New(), cfg.Stats.Shuffles, cfg.Stats.Seed)
	stats := app.NewStatsService(projects, statsEngine, excel.NewReportWriter(), logger)

	server := ui.NewApp(ui.Config{Port: cfg.Server.Port}, projects, plots, stats, logger)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"airbnb-dashboard/config"
	"airbnb-dashboard/utils"
)

const usage = `usage: airbnb-dashboard [command]

commands:
  serve     serve the dashboard (default)
  report    print dataset insights to the terminal
  seed      load the cleaned CSV into PostgreSQL
  snapshot  render the dashboard in headless Chrome and save a PNG
`

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Airbnb NYC Dashboard: %s ===", cmd)
	logger.Info("Config: source: %s | dataset: %s | top hosts: %d | default max price: %d",
		cfg.DataSource, cfg.DatasetPath, cfg.TopHosts, cfg.DefaultMaxPrice)

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "report":
		err = runReport(ctx, cfg, logger)
	case "seed":
		err = runSeed(ctx, cfg, logger)
	case "snapshot":
		err = runSnapshot(ctx, cfg, logger)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

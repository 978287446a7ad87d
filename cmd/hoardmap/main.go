package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hoardmap/pkg/aggregator"
	"hoardmap/pkg/cache"
	"hoardmap/pkg/config"
	"hoardmap/pkg/db"
	"hoardmap/pkg/logging"
	"hoardmap/pkg/output"
	"hoardmap/pkg/request"
	"hoardmap/pkg/source"
	"hoardmap/pkg/tracker"
	"hoardmap/pkg/version"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	_ = godotenv.Load()
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault("configs/hoardmap.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/hoardmap.yaml")
		return
	}

	if err := run(context.Background(), "configs/hoardmap.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Aggregation failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("HoardMap aggregator started", "version", version.Version, "source", appCfg.Source.BaseURL)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.PruneCache(time.Duration(appCfg.Aggregate.CacheTTL)); err != nil {
		slog.Error("Cache pruning failed", "error", err)
	}

	tr := tracker.New()
	reqClient := request.New(cache.NewSQLiteCache(dbConn), tr, request.Options{
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
	})
	src := source.New(reqClient, appCfg.Source)

	writer, err := output.NewWriter(appCfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	runner := aggregator.New(src, writer, tr, dbConn, appCfg.Aggregate)
	return runner.Run(ctx)
}

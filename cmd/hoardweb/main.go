package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hoardmap/internal/api"
	"hoardmap/pkg/cache"
	"hoardmap/pkg/config"
	"hoardmap/pkg/db"
	"hoardmap/pkg/logging"
	"hoardmap/pkg/request"
	"hoardmap/pkg/source"
	"hoardmap/pkg/tracker"
	"hoardmap/pkg/version"
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if err := run(context.Background(), "configs/hoardmap.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Server failed: %v\n", err)
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

	slog.Info("HoardMap republisher started",
		"version", version.Version,
		"addr", appCfg.Server.Address,
		"source", appCfg.Source.BaseURL)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	tr := tracker.New()
	reqClient := request.New(cache.NewSQLiteCache(dbConn), tr, request.Options{
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
	})
	src := source.New(reqClient, appCfg.Source)

	srv := api.NewServer(appCfg.Server,
		api.NewProxyHandler(src),
		api.NewStatsHandler(tr, dbConn),
		appCfg.Output.Dir,
	)
	srv.Handler = loggingMiddleware(srv.Handler)

	return runServerLifecycle(ctx, srv)
}

func runServerLifecycle(ctx context.Context, srv *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listfilter/internal/loader"
	_ "listfilter/internal/storage/memory"
	_ "listfilter/internal/storage/sqlite"
)

var (
	configPath = flag.String("config", "config.toml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	fmt.Printf("Loading configuration from: %s\n", *configPath)

	st, err := loader.LoadAndBuild(ctx, *configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc := st.Service
	slog.Info("Starting service", "name", svc.Name())

	errChan := make(chan error, 1)
	go func() {
		if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := svc.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	slog.Info("Service stopped successfully")
	return nil
}

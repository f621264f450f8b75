package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"tvheap/internal/http"
	"tvheap/internal/tableam"
	"tvheap/internal/txn"
	"tvheap/internal/visibility"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := initConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initLogger(&cfg)

	registry := txn.NewRegistry()
	stats := &visibility.Stats{}

	amRegistry := tableam.NewRegistry()
	ext := tableam.NewExtension(amRegistry)
	base := &tableam.StockHeap{
		BatchSize: cfg.AM.ScanBatchSize,
		Toast:     cfg.AM.ToastThreshold,
	}
	am, err := ext.Init(base, registry, stats)
	if err != nil {
		slog.Error("failed to register access method", "error", err)
		os.Exit(1)
	}
	defer ext.Close()
	slog.Info("access method registered", "name", am.Name())

	server := http.NewServer(stats, registry, strconv.Itoa(cfg.Server.Port))
	if err := server.Start(); err != nil {
		slog.Error("failed to start admin server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		slog.Error("failed to stop admin server", "error", err)
	}
	slog.Info("tvheap stopped")
}

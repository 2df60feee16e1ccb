package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensify/internal/config"
	"github.com/MrJamesThe3rd/expensify/internal/devproxy"
	"github.com/MrJamesThe3rd/expensify/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(log)

	handler, err := devproxy.New(cfg.DevProxy.Backend, cfg.DevProxy.AllowedOrigins, log)
	if err != nil {
		slog.Error("failed to create proxy", "error", err)
		os.Exit(1)
	}

	port := fmt.Sprintf(":%d", cfg.DevProxy.Port)
	slog.Info("starting dev proxy", "port", port, "backend", cfg.DevProxy.Backend, "prefixes", devproxy.Prefixes)

	if err := http.ListenAndServe(port, handler); err != nil {
		slog.Error("proxy failed", "error", err)
		os.Exit(1)
	}
}

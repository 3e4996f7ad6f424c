package main

import (
	"log/slog"
	"os"

	"finance-api/internal/app"
	"finance-api/internal/logger"
)

func main() {
	// Bootstrap logger until the configured one is installed.
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}, true)))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

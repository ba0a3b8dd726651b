package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeguess/internal/config"
	"codeguess/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := &config.Config{}
	err := config.NewCommand(cfg, run).ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s, err := server.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	return s.Run(cmd.Context())
}

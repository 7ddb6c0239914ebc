package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/iudanet/loyalty/internal/config"
	"github.com/iudanet/loyalty/internal/server"
	"github.com/iudanet/loyalty/internal/server/handlers"
	"github.com/iudanet/loyalty/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.LoadServer(args, os.Stderr, os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if cfg.ShowVersion {
		printVersion()
		return 0
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("path", cfg.DBPath), slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	srv := server.New(server.Config{
		Addr: cfg.Addr,
		Auth: handlers.AuthConfig{
			JWT: handlers.JWTConfig{
				Secret:          []byte(cfg.JWTSecret),
				AccessTokenTTL:  cfg.AccessTTL,
				RefreshTokenTTL: cfg.RefreshTTL,
			},
			CodeTTL:         cfg.CodeTTL,
			MaxCodeAttempts: cfg.MaxCodeAttempts,
			RotateRefresh:   cfg.RotateRefresh,
		},
	}, store, handlers.NewLogSender(logger), logger)

	logger.Info("starting loyalty server",
		slog.String("version", Version),
		slog.String("db", cfg.DBPath),
		slog.Bool("rotate_refresh", cfg.RotateRefresh))

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}

// newLogger пишет текстовые логи в терминал и JSON при перенаправлении вывода
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func printVersion() {
	fmt.Printf("Loyalty Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

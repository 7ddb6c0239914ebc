package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/iudanet/loyalty/internal/client/api"
	"github.com/iudanet/loyalty/internal/client/auth"
	"github.com/iudanet/loyalty/internal/client/cli"
	"github.com/iudanet/loyalty/internal/client/data"
	"github.com/iudanet/loyalty/internal/client/imagecache"
	"github.com/iudanet/loyalty/internal/client/iocli"
	"github.com/iudanet/loyalty/internal/client/storage/boltdb"
	"github.com/iudanet/loyalty/internal/config"
	"github.com/iudanet/loyalty/internal/crypto"
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
	cfg, rest, err := config.LoadClient(args, config.Options{Output: os.Stderr})
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

	stdio := iocli.NewStdio()
	if len(rest) == 0 {
		cli.New(stdio, nil, nil, nil).PrintUsage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	cipher := crypto.NewCipher(boltStorage, logger)
	tokenStore := auth.NewTokenStore(boltStorage, cipher, logger)

	apiClient := api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.RequestTimeout.Duration),
		api.WithLogger(logger),
	)

	session := auth.NewSession(tokenStore, apiClient, logger,
		auth.WithRefreshTimeout(cfg.RefreshTimeout.Duration),
		auth.WithRefreshSkew(cfg.RefreshSkew.Duration),
	)
	// Явный logout печатает свое сообщение
	if rest[0] != "logout" {
		session.OnLogout(func() {
			stdio.Println("Your session has ended. Please run 'loyalty login' again.")
		})
	}
	session.Init(ctx)
	apiClient.UseTokenSource(auth.ProactiveSource{Session: session})

	images, err := imagecache.New(imagecache.Config{
		Dir:             cfg.Cache.Dir,
		MaxSize:         int64(cfg.Cache.MaxSize),
		MaxAge:          cfg.Cache.MaxAge.Duration,
		CleanupInterval: cfg.Cache.CleanupInterval.Duration,
		MaxWidth:        cfg.Cache.MaxWidth,
		Quality:         cfg.Cache.Quality,
	}, &http.Client{Timeout: cfg.RequestTimeout.Duration}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image cache: %v\n", err)
		return 1
	}
	go images.Run(ctx)

	authService := auth.NewService(apiClient, session, tokenStore, logger)
	dataService := data.NewService(apiClient, images, logger)

	c := cli.New(stdio, authService, dataService, images)
	if err := c.Run(ctx, rest); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
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
	fmt.Printf("Loyalty Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

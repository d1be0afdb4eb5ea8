package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/letsssgooo/gateQuiz/internal/auth"
	"github.com/letsssgooo/gateQuiz/internal/bot"
	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/config"
	"github.com/letsssgooo/gateQuiz/internal/lib/slogcustom"
	"github.com/letsssgooo/gateQuiz/internal/storage"
	"github.com/letsssgooo/gateQuiz/internal/storage/postgres"
	"github.com/letsssgooo/gateQuiz/internal/storage/sqlite"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
	"github.com/letsssgooo/gateQuiz/internal/theme"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := setupLogger(cfg.LogLevel)
	slog.SetDefault(log)
	slog.Info("starting gate quiz bot...", "api", cfg.APIURL, "prefs", cfg.PrefsDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg); err != nil {
		slog.Error("bot stopped with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	prefs, err := openPreferences(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if err := prefs.Close(); err != nil {
			slog.Warn("failed to close preferences storage", "err", err)
		}
	}()

	botAuth, err := auth.NewBotAuth(cfg.AllowedUsers)
	if err != nil {
		return fmt.Errorf("failed to build allowlist: %w", err)
	}

	api := client.New(client.Config{
		BaseURL:        cfg.APIURL,
		AssetsURL:      cfg.AssetsURL,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
	})

	b := bot.NewBot(bot.Options{
		Telegram:    telegram.NewHTTPClient(cfg.TelegramToken, cfg.TelegramEndpoint),
		API:         api,
		Themes:      theme.NewStore(prefs),
		Auth:        botAuth,
		PollTimeout: cfg.PollTimeoutSeconds(),
		ChatTTL:     cfg.ChatTTL,
	})

	return b.Run(ctx)
}

// openPreferences открывает хранилище настроек чатов по драйверу из конфига.
func openPreferences(ctx context.Context, cfg *config.Config) (storage.Preferences, error) {
	switch cfg.PrefsDriver {
	case storage.DriverPostgres:
		return postgres.NewStorage(ctx, cfg.PrefsDSN)
	case storage.DriverSQLite:
		return sqlite.NewStorage(ctx, cfg.PrefsDSN)
	default:
		return storage.NewMemoryStorage(), nil
	}
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slogcustom.NewCustomHandler(os.Stdout, level))
}

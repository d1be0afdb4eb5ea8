package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/gateQuiz/internal/auth"
	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/lib/slogcustom"
	"github.com/letsssgooo/gateQuiz/internal/storage"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// Config содержит настройки бота.
type Config struct {
	TelegramToken    string
	TelegramEndpoint string

	APIURL    string
	AssetsURL string

	PrefsDriver string
	PrefsDSN    string

	LogLevel slog.Level

	PollTimeout    time.Duration
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	ChatTTL        time.Duration

	AllowedUsers []string
}

const (
	defaultPollTimeout    = 30 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 5 * time.Minute
	defaultChatTTL        = 24 * time.Hour
)

// Load читает .env (если есть), переменные окружения и флаги args.
// Флаги имеют приоритет над окружением.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return parse(args, os.LookupEnv)
}

func parse(args []string, lookup func(string) (string, bool)) (*Config, error) {
	env := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}

		return fallback
	}

	var errs []error

	envDuration := func(key string, fallback time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}

		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			return fallback
		}

		return d
	}

	flags := pflag.NewFlagSet("gatequiz", pflag.ContinueOnError)

	token := flags.String("token", env("TELEGRAM_TOKEN", ""), "token of telegram bot")
	endpoint := flags.String("telegram-endpoint", env("TELEGRAM_ENDPOINT", telegram.DefaultEndpoint), "telegram bot api endpoint")
	apiURL := flags.String("api-url", env("QUIZ_API_URL", client.DefaultBaseURL), "base url of the quiz backend api")
	assetsURL := flags.String("assets-url", env("QUIZ_ASSETS_URL", client.DefaultAssetsURL), "origin serving question images")
	driver := flags.String("prefs-driver", env("PREFS_DRIVER", storage.DriverMemory), "preferences storage: memory, postgres or sqlite")
	dsn := flags.String("prefs-dsn", env("PREFS_DSN", ""), "preferences storage dsn")
	level := flags.String("log-level", env("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	poll := flags.Duration("poll-timeout", envDuration("POLL_TIMEOUT", defaultPollTimeout), "long polling timeout")
	request := flags.Duration("request-timeout", envDuration("REQUEST_TIMEOUT", defaultRequestTimeout), "backend request timeout")
	upload := flags.Duration("upload-timeout", envDuration("UPLOAD_TIMEOUT", defaultUploadTimeout), "pdf upload timeout")
	chatTTL := flags.Duration("chat-ttl", envDuration("CHAT_TTL", defaultChatTTL), "forget chats idle for longer than this")
	allowed := flags.String("allowed-users", env("ALLOWED_USERS", ""), "comma separated telegram usernames, empty allows everyone")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken:    *token,
		TelegramEndpoint: *endpoint,
		APIURL:           *apiURL,
		AssetsURL:        *assetsURL,
		PrefsDriver:      *driver,
		PrefsDSN:         *dsn,
		PollTimeout:      *poll,
		RequestTimeout:   *request,
		UploadTimeout:    *upload,
		ChatTTL:          *chatTTL,
	}

	logLevel, err := slogcustom.ParseLevel(*level)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.LogLevel = logLevel

	cfg.AllowedUsers, err = auth.ParseAllowlist(*allowed)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid ALLOWED_USERS: %w", err))
	}

	errs = append(errs, cfg.validate()...)

	if len(errs) != 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("telegram token is required (TELEGRAM_TOKEN or --token)"))
	}

	switch c.PrefsDriver {
	case storage.DriverMemory, storage.DriverSQLite:
	case storage.DriverPostgres:
		if c.PrefsDSN == "" {
			errs = append(errs, errors.New("PREFS_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown preferences driver %q", c.PrefsDriver))
	}

	if c.PollTimeout < 0 {
		errs = append(errs, errors.New("poll timeout must not be negative"))
	}

	if c.RequestTimeout <= 0 || c.UploadTimeout <= 0 {
		errs = append(errs, errors.New("request and upload timeouts must be positive"))
	}

	if c.ChatTTL <= 0 {
		errs = append(errs, errors.New("chat ttl must be positive"))
	}

	return errs
}

// PollTimeoutSeconds — timeout для getUpdates в секундах.
func (c *Config) PollTimeoutSeconds() int {
	return int(c.PollTimeout / time.Second)
}

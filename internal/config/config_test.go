package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/storage"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(nil, lookupFrom(map[string]string{"TELEGRAM_TOKEN": "123:abc"}))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, client.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, client.DefaultAssetsURL, cfg.AssetsURL)
	assert.Equal(t, storage.DriverMemory, cfg.PrefsDriver)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30, cfg.PollTimeoutSeconds())
	assert.Equal(t, 5*time.Minute, cfg.UploadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ChatTTL)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	env := map[string]string{
		"TELEGRAM_TOKEN":  "from-env",
		"QUIZ_API_URL":    "http://backend:8000/api",
		"LOG_LEVEL":       "warn",
		"REQUEST_TIMEOUT": "10s",
		"ALLOWED_USERS":   "@alice_g,bob_gate",
		"CHAT_TTL":        "2h",
	}

	cfg, err := parse([]string{"--token", "from-flag", "--log-level", "debug", "--prefs-driver", "sqlite"}, lookupFrom(env))
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.TelegramToken)
	assert.Equal(t, "http://backend:8000/api", cfg.APIURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, storage.DriverSQLite, cfg.PrefsDriver)
	assert.Equal(t, []string{"alice_g", "bob_gate"}, cfg.AllowedUsers)
	assert.Equal(t, 2*time.Hour, cfg.ChatTTL)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "no token", env: map[string]string{}},
		{name: "bad duration", env: map[string]string{"TELEGRAM_TOKEN": "t", "POLL_TIMEOUT": "soon"}},
		{name: "bad level", env: map[string]string{"TELEGRAM_TOKEN": "t", "LOG_LEVEL": "loud"}},
		{name: "unknown driver", env: map[string]string{"TELEGRAM_TOKEN": "t", "PREFS_DRIVER": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"TELEGRAM_TOKEN": "t", "PREFS_DRIVER": "postgres"}},
		{name: "bad username", env: map[string]string{"TELEGRAM_TOKEN": "t", "ALLOWED_USERS": "ab"}},
		{name: "zero chat ttl", env: map[string]string{"TELEGRAM_TOKEN": "t"}, args: []string{"--chat-ttl", "0s"}},
		{name: "unknown flag", env: map[string]string{"TELEGRAM_TOKEN": "t"}, args: []string{"--nope"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(tc.args, lookupFrom(tc.env))
			assert.Error(t, err)
		})
	}
}

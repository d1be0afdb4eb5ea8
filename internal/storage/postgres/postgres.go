package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/gateQuiz/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_preferences (
	chat_id    BIGINT PRIMARY KEY,
	theme      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

// Storage реализует storage.Preferences поверх PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к базе по dsn и создаёт таблицу настроек, если её нет.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err = pool.Exec(ctx, schema); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) LoadTheme(ctx context.Context, chatID int64) (string, error) {
	query := `
	SELECT theme FROM chat_preferences WHERE chat_id = $1
	`

	var theme string

	err := s.pool.QueryRow(ctx, query, chatID).Scan(&theme)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrNotFound
	}

	if err != nil {
		return "", err
	}

	return theme, nil
}

func (s *Storage) SaveTheme(ctx context.Context, chatID int64, theme string) error {
	query := `
	INSERT INTO chat_preferences (chat_id, theme, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (chat_id) DO UPDATE SET theme = EXCLUDED.theme, updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query, chatID, theme)

	return err
}

func (s *Storage) Close() error {
	s.pool.Close()

	return nil
}

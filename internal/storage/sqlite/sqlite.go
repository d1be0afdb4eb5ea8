package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/letsssgooo/gateQuiz/internal/storage"
)

// DefaultDSN — файл базы в текущем каталоге.
const DefaultDSN = "file:gatequiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

const schema = `
CREATE TABLE IF NOT EXISTS chat_preferences (
	chat_id    INTEGER PRIMARY KEY,
	theme      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)
`

// Storage реализует storage.Preferences поверх SQLite.
type Storage struct {
	db *sql.DB
}

// NewStorage открывает базу dsn (пустая строка означает DefaultDSN) и создаёт схему.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) LoadTheme(ctx context.Context, chatID int64) (string, error) {
	var theme string

	err := s.db.QueryRowContext(ctx, `SELECT theme FROM chat_preferences WHERE chat_id = ?`, chatID).Scan(&theme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}

	if err != nil {
		return "", err
	}

	return theme, nil
}

func (s *Storage) SaveTheme(ctx context.Context, chatID int64, theme string) error {
	query := `
	INSERT INTO chat_preferences (chat_id, theme, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (chat_id) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, chatID, theme, time.Now().Unix())

	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

package storage

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, если для чата ещё ничего не сохранено.
var ErrNotFound = errors.New("preference not found")

// Preferences определяет интерфейс для хранения настроек чатов.
// Между перезапусками бота сохраняется только тема оформления.
type Preferences interface {
	// LoadTheme возвращает сохранённую тему чата или ErrNotFound.
	LoadTheme(ctx context.Context, chatID int64) (string, error)

	// SaveTheme сохраняет тему чата, перезаписывая прежнее значение.
	SaveTheme(ctx context.Context, chatID int64, theme string) error

	// Close освобождает ресурсы хранилища.
	Close() error
}

// Драйверы хранилища
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

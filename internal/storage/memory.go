package storage

import (
	"context"
	"sync"
)

// MemoryStorage реализует Preferences в памяти.
type MemoryStorage struct {
	mu     sync.RWMutex
	themes map[int64]string
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{themes: make(map[int64]string)}
}

// LoadTheme возвращает тему чата.
func (s *MemoryStorage) LoadTheme(_ context.Context, chatID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	theme, ok := s.themes[chatID]
	if !ok {
		return "", ErrNotFound
	}

	return theme, nil
}

// SaveTheme сохраняет тему чата.
func (s *MemoryStorage) SaveTheme(_ context.Context, chatID int64, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes[chatID] = theme

	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

package theme

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/letsssgooo/gateQuiz/internal/storage"
)

// Theme — тема оформления сообщений.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	Default = Dark
)

// Parse разбирает сохранённое значение темы. Неизвестные значения дают Default.
func Parse(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light
	case Dark:
		return Dark
	default:
		return Default
	}
}

// Toggled возвращает противоположную тему.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}

	return Dark
}

// Palette — набор значков, которыми рисуется квиз в данной теме.
type Palette struct {
	Icon       string
	Selected   string
	Unselected string
	CheckOn    string
	CheckOff   string
	Answered   string
	Unanswered string
	Current    string
	Correct    string
	Incorrect  string
	Hint       string
}

var palettes = map[Theme]Palette{
	Dark: {
		Icon:       "🌙",
		Selected:   "🟣",
		Unselected: "⚫",
		CheckOn:    "☑️",
		CheckOff:   "⬛",
		Answered:   "🟩",
		Unanswered: "⬛",
		Current:    "🔷",
		Correct:    "✅",
		Incorrect:  "❌",
		Hint:       "💡",
	},
	Light: {
		Icon:       "☀️",
		Selected:   "🔵",
		Unselected: "⚪",
		CheckOn:    "☑️",
		CheckOff:   "⬜",
		Answered:   "🟩",
		Unanswered: "⬜",
		Current:    "🔶",
		Correct:    "✅",
		Incorrect:  "❌",
		Hint:       "💡",
	},
}

// Palette возвращает значки темы.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}

	return palettes[Default]
}

// Store хранит тему каждого чата и сохраняет её через storage.Preferences.
type Store struct {
	prefs storage.Preferences

	mu    sync.RWMutex
	cache map[int64]Theme
}

// NewStore создаёт хранилище тем поверх prefs.
func NewStore(prefs storage.Preferences) *Store {
	return &Store{
		prefs: prefs,
		cache: make(map[int64]Theme),
	}
}

// Get возвращает тему чата. Ошибка хранилища не мешает отрисовке: тогда возвращается Default.
func (s *Store) Get(ctx context.Context, chatID int64) Theme {
	s.mu.RLock()
	t, ok := s.cache[chatID]
	s.mu.RUnlock()

	if ok {
		return t
	}

	raw, err := s.prefs.LoadTheme(ctx, chatID)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		t = Default
	case err != nil:
		slog.Warn("failed to load theme", "chat_id", chatID, "err", err)

		return Default
	default:
		t = Parse(raw)
	}

	s.mu.Lock()
	s.cache[chatID] = t
	s.mu.Unlock()

	return t
}

// Set запоминает тему чата и сохраняет её.
func (s *Store) Set(ctx context.Context, chatID int64, t Theme) error {
	t = Parse(string(t))

	s.mu.Lock()
	s.cache[chatID] = t
	s.mu.Unlock()

	return s.prefs.SaveTheme(ctx, chatID, string(t))
}

// Toggle переключает тему чата и возвращает новую.
func (s *Store) Toggle(ctx context.Context, chatID int64) (Theme, error) {
	next := s.Get(ctx, chatID).Toggled()

	return next, s.Set(ctx, chatID, next)
}

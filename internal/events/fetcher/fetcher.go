package fetcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// TelegramFetcher реализует Fetcher через Telegram Bot API.
type TelegramFetcher struct {
	client telegram.Client

	mu     sync.Mutex
	offset int
}

func NewTelegramFetcher(client telegram.Client) *TelegramFetcher {
	return &TelegramFetcher{
		client: client,
		offset: 0,
	}
}

// Fetch получает слайс Update, учитывая timeout.
// Offset сдвигается за последнее полученное обновление, повторно оно не придёт.
func (f *TelegramFetcher) Fetch(ctx context.Context, timeout int) ([]telegram.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	updates, err := f.client.GetUpdates(ctx, f.offset, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updates from offset %d: %w", f.offset, err)
	}

	if len(updates) != 0 {
		f.offset = updates[len(updates)-1].UpdateID + 1
	}

	return updates, nil
}

// Offset возвращает offset следующего запроса.
func (f *TelegramFetcher) Offset() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.offset
}

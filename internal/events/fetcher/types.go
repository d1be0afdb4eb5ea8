package fetcher

import (
	"context"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// Fetcher определяет основной интерфейс для получения сообщений.
type Fetcher interface {
	// Fetch получает слайс Update, учитывая timeout
	Fetch(ctx context.Context, timeout int) ([]telegram.Update, error)
}

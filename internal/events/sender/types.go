package sender

import (
	"context"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// Sender определяет основной интерфейс для отправки сообщений.
type Sender interface {
	// Message отправляет текстовое сообщение.
	Message(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (*telegram.Message, error)

	// Screen заменяет текст сообщения messageID. Если сообщения нет (messageID == 0)
	// или изменить его не удалось, отправляет новое. Возвращает id актуального сообщения.
	Screen(ctx context.Context, chatID int64, messageID int, text string, markup *telegram.InlineKeyboardMarkup) (int, error)

	// Photo отправляет картинку.
	Photo(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error

	// Delete удаляет сообщение.
	Delete(ctx context.Context, chatID int64, messageID int) error

	// Notify отвечает на нажатие inline кнопки.
	Notify(ctx context.Context, callbackID string, text string) error
}

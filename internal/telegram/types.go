package telegram

import (
	"context"
	"time"
)

// Update представляет обновление от Telegram.
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message представляет сообщение.
type Message struct {
	MessageID int       `json:"message_id"`
	From      *User     `json:"from"`
	Chat      *Chat     `json:"chat"`
	Text      string    `json:"text"`
	Caption   string    `json:"caption"`
	Document  *Document `json:"document"`
}

// User представляет пользователя Telegram.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Chat представляет чат.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Document представляет документ (файл).
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int    `json:"file_size"`
}

// CallbackQuery представляет callback от inline кнопки.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// InlineKeyboardMarkup представляет inline клавиатуру.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton представляет кнопку inline клавиатуры.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// SendOptions содержит опции отправки сообщения.
type SendOptions struct {
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// Client определяет интерфейс Telegram клиента.
type Client interface {
	// SendMessage отправляет сообщение.
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (*Message, error)

	// EditMessage редактирует сообщение.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts *SendOptions) error

	// DeleteMessage удаляет сообщение.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback отвечает на callback query.
	AnswerCallback(ctx context.Context, callbackID string, text string) error

	// GetUpdates получает обновления (long polling).
	GetUpdates(ctx context.Context, offset int, timeout int) ([]Update, error)

	// GetFile получает путь файла на серверах Telegram.
	GetFile(ctx context.Context, fileID string) (string, error)

	// DownloadFile скачивает файл по пути.
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)

	// SendPhoto отправляет картинку.
	SendPhoto(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error
}

// Таймауты
const (
	timeoutSend     = 5 * time.Second
	timeoutDownload = 30 * time.Second
)

// DefaultEndpoint — адрес Bot API.
const DefaultEndpoint = "https://api.telegram.org"

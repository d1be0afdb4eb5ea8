package sender

import (
	"context"
	"log/slog"
	"strings"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// parseMode — все экраны размечены HTML.
const parseMode = "HTML"

// TelegramSender реализует отправку сообщений через Telegram Bot API.
type TelegramSender struct {
	client telegram.Client
}

// NewSender создает новый объект структуры TelegramSender.
func NewSender(client telegram.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

// Message отправляет текстовое сообщение.
func (s *TelegramSender) Message(
	ctx context.Context,
	chatID int64,
	text string,
	markup *telegram.InlineKeyboardMarkup,
) (*telegram.Message, error) {
	return s.client.SendMessage(ctx, chatID, text, options(markup))
}

// Screen перерисовывает экран чата.
func (s *TelegramSender) Screen(
	ctx context.Context,
	chatID int64,
	messageID int,
	text string,
	markup *telegram.InlineKeyboardMarkup,
) (int, error) {
	if messageID != 0 {
		err := s.client.EditMessage(ctx, chatID, messageID, text, options(markup))
		if err == nil || isNotModified(err) {
			return messageID, nil
		}

		slog.Debug("failed to edit screen, sending a new one", "chat_id", chatID, "err", err)
	}

	msg, err := s.client.SendMessage(ctx, chatID, text, options(markup))
	if err != nil {
		return messageID, err
	}

	return msg.MessageID, nil
}

// Photo отправляет картинку.
func (s *TelegramSender) Photo(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error {
	return s.client.SendPhoto(ctx, chatID, fileName, data, caption)
}

// Delete удаляет сообщение.
func (s *TelegramSender) Delete(ctx context.Context, chatID int64, messageID int) error {
	return s.client.DeleteMessage(ctx, chatID, messageID)
}

// Notify отвечает на callback query.
func (s *TelegramSender) Notify(ctx context.Context, callbackID string, text string) error {
	if callbackID == "" {
		return nil
	}

	return s.client.AnswerCallback(ctx, callbackID, text)
}

func options(markup *telegram.InlineKeyboardMarkup) *telegram.SendOptions {
	return &telegram.SendOptions{
		ParseMode:   parseMode,
		ReplyMarkup: markup,
	}
}

// isNotModified — Telegram отвечает ошибкой, если текст и клавиатура не изменились.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
)

// API определяет интерфейс клиента бэкенда квизов.
type API interface {
	// UploadPDFs загружает PDF с вопросами и PDF с ключом ответов, создаёт сессию.
	UploadPDFs(ctx context.Context, questions, answerKey File) (*models.UploadResponse, error)

	// GetQuiz возвращает вопросы сессии sessionID.
	GetQuiz(ctx context.Context, sessionID string) (*models.QuizSession, error)

	// SubmitQuiz отправляет ответы и возвращает результат.
	SubmitQuiz(ctx context.Context, sessionID string, submission models.QuizSubmission) (*models.QuizResult, error)

	// GetHint возвращает подсказку к вопросу с номером number.
	GetHint(ctx context.Context, sessionID string, number int) (*models.HintResponse, error)

	// FetchAsset скачивает картинку вопроса по пути из Question.Images.
	FetchAsset(ctx context.Context, path string) ([]byte, error)
}

// File — загружаемый файл.
type File struct {
	Name   string
	Reader io.Reader
}

// Config содержит настройки клиента.
type Config struct {
	BaseURL        string
	AssetsURL      string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
}

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultAssetsURL = "http://localhost:8000"

	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 5 * time.Minute
)

// APIError описывает неуспешный запрос к бэкенду.
// Status равен 0, если ответа не было (ошибка сети).
type APIError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
	}

	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorMessage возвращает текст ошибки для пользователя:
// detail бэкенда, затем сообщение транспорта, затем fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}

		if apiErr.Err != nil && apiErr.Err.Error() != "" {
			return apiErr.Err.Error()
		}

		return fallback
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return fallback
}

// parseDetail достаёт поле detail из тела ошибки.
// Поддерживает строку и список ошибок валидации вида [{"msg": "..."}].
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}

	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}

	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}

		return strings.Join(msgs, "; ")
	}

	return strings.TrimSpace(string(payload.Detail))
}

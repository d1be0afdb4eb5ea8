package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
)

const headerRequestID = "X-Request-ID"

// Client реализует API поверх REST бэкенда квизов.
type Client struct {
	rest           *resty.Client
	assetsURL      string
	requestTimeout time.Duration
	uploadTimeout  time.Duration
}

// New создаёт клиента бэкенда. Пустые поля cfg заменяются значениями по умолчанию.
// Повторных попыток клиент не делает.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.AssetsURL == "" {
		cfg.AssetsURL = DefaultAssetsURL
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = defaultUploadTimeout
	}

	rest := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(headerRequestID) == "" {
			r.SetHeader(headerRequestID, uuid.NewString())
		}

		return nil
	})

	return &Client{
		rest:           rest,
		assetsURL:      strings.TrimSuffix(cfg.AssetsURL, "/"),
		requestTimeout: cfg.RequestTimeout,
		uploadTimeout:  cfg.UploadTimeout,
	}
}

// UploadPDFs отправляет оба файла одной multipart формой.
func (c *Client) UploadPDFs(ctx context.Context, questions, answerKey File) (*models.UploadResponse, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancelFunc()

	req := c.rest.R().
		SetFileReader("questions_pdf", questions.Name, questions.Reader).
		SetFileReader("answer_key_pdf", answerKey.Name, answerKey.Reader)

	var out models.UploadResponse
	if err := c.do(ctx, "upload", req, http.MethodPost, "/upload", &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetQuiz загружает вопросы сессии.
func (c *Client) GetQuiz(ctx context.Context, sessionID string) (*models.QuizSession, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelFunc()

	req := c.rest.R().SetPathParam("sessionID", sessionID)

	var out models.QuizSession
	if err := c.do(ctx, "get quiz", req, http.MethodGet, "/quiz/{sessionID}", &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// SubmitQuiz отправляет ответы и возвращает оценённый результат.
func (c *Client) SubmitQuiz(
	ctx context.Context,
	sessionID string,
	submission models.QuizSubmission,
) (*models.QuizResult, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelFunc()

	if submission.Answers == nil {
		submission.Answers = []models.AnswerSubmission{}
	}

	req := c.rest.R().
		SetPathParam("sessionID", sessionID).
		SetBody(submission)

	var out models.QuizResult
	if err := c.do(ctx, "submit quiz", req, http.MethodPost, "/quiz/{sessionID}/submit", &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetHint запрашивает подсказку. Бэкенд сам кэширует подсказки, флаг Cached это отражает.
func (c *Client) GetHint(ctx context.Context, sessionID string, number int) (*models.HintResponse, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelFunc()

	req := c.rest.R().SetPathParams(map[string]string{
		"sessionID": sessionID,
		"number":    strconv.Itoa(number),
	})

	var out models.HintResponse
	if err := c.do(ctx, "get hint", req, http.MethodGet, "/quiz/{sessionID}/hint/{number}", &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// FetchAsset скачивает картинку вопроса.
func (c *Client) FetchAsset(ctx context.Context, path string) ([]byte, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, c.requestTimeout)
	defer cancelFunc()

	link, err := ResolveAssetURL(c.assetsURL, path)
	if err != nil {
		return nil, &APIError{Op: "fetch asset", Err: err}
	}

	req := c.rest.R().SetHeader("Accept", "*/*")

	var raw []byte
	if err = c.do(ctx, "fetch asset", req, http.MethodGet, link, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// ResolveAssetURL строит абсолютный адрес картинки.
// Абсолютные ссылки возвращаются без изменений, относительные приклеиваются к base.
func ResolveAssetURL(base, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty asset path")
	}

	parsed, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid asset path %q: %w", path, err)
	}

	if parsed.IsAbs() {
		return path, nil
	}

	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/"), nil
}

// do выполняет запрос и декодирует тело ответа в out.
// Если out имеет тип *[]byte, тело копируется как есть.
func (c *Client) do(
	ctx context.Context,
	op string,
	req *resty.Request,
	method string,
	path string,
	out interface{},
) error {
	start := time.Now()

	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		slog.Debug("backend request failed", "op", op, "err", err)

		return &APIError{Op: op, Err: err}
	}

	slog.Debug("backend request",
		"op", op,
		"status", resp.StatusCode(),
		"request_id", req.Header.Get(headerRequestID),
		"took", time.Since(start).Round(time.Millisecond),
	)

	if !resp.IsSuccess() {
		return &APIError{
			Op:     op,
			Status: resp.StatusCode(),
			Detail: parseDetail(resp.Body()),
			Err:    fmt.Errorf("request failed with status code %d", resp.StatusCode()),
		}
	}

	switch v := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = resp.Body()

		return nil
	}

	if err = json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{
			Op:     op,
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return nil
}

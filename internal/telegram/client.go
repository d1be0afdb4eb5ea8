package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// HTTPClient реализует Client через HTTP API Telegram.
type HTTPClient struct {
	token      string
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClient создаёт нового HTTP клиента Telegram по переданному токену.
// endpoint — адрес Bot API, пустая строка означает DefaultEndpoint.
func NewHTTPClient(token string, endpoint string) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &HTTPClient{
		token:      token,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{},
	}
}

// SendMessage отправляет сообщение text в чат chatID.
// Возвращает указатель на структуру Message в случае успеха.
func (c *HTTPClient) SendMessage(
	ctx context.Context,
	chatID int64,
	text string,
	opts *SendOptions,
) (*Message, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "sendMessage", params)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(rawResp, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

// EditMessage изменяет сообщение messageID на text в чате chatID.
// Возвращает nil в случае успеха.
func (c *HTTPClient) EditMessage(
	ctx context.Context,
	chatID int64,
	messageID int,
	text string,
	opts *SendOptions,
) error {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"message_id": messageID,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "editMessageText", params)

	return err
}

// DeleteMessage удаляет сообщение messageID в чате chatID.
func (c *HTTPClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
	}

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "deleteMessage", params)

	return err
}

// AnswerCallback отвечает уведомлением в верхней части экрана чата на callback query
// с идентификатором callbackID. Пустой text просто убирает "часики" на кнопке.
func (c *HTTPClient) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	params := map[string]interface{}{
		"callback_query_id": callbackID,
	}

	if text != "" {
		params["text"] = text
	}

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "answerCallbackQuery", params)

	return err
}

// GetUpdates получает обновления.
// Если новых обновлений нет, ждёт до timeout секунд.
// Для продолжения обработки нужно передать offset = lastUpdateID + 1.
func (c *HTTPClient) GetUpdates(ctx context.Context, offset int, timeout int) ([]Update, error) {
	params := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "callback_query"},
	}

	rawResp, err := c.doRequest(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err = json.Unmarshal(rawResp, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

// GetFile получает информацию о файле с идентификатором fileID.
// Возвращает путь файла в случае успеха.
func (c *HTTPClient) GetFile(ctx context.Context, fileID string) (string, error) {
	params := map[string]interface{}{
		"file_id": fileID,
	}

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "getFile", params)
	if err != nil {
		return "", err
	}

	var file struct {
		FileID   string `json:"file_id"`
		FileSize int    `json:"file_size"`
		FilePath string `json:"file_path"`
	}

	if err = json.Unmarshal(rawResp, &file); err != nil {
		return "", err
	}

	if file.FilePath == "" {
		return "", fmt.Errorf("file %s has no path, it may be too big to download", fileID)
	}

	return file.FilePath, nil
}

// DownloadFile скачивает файл с путем filePath.
// Возвращает содержимое файла в случае успеха.
func (c *HTTPClient) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	link := fmt.Sprintf("%s/file/bot%s/%s", c.endpoint, c.token, filePath)

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutDownload)
	defer cancelFunc()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", filePath, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status code %d for file %s", resp.StatusCode, filePath)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body in DownloadFile: %w", err)
	}

	return data, nil
}

// SendPhoto отправляет картинку data с именем fileName в чат chatID.
func (c *HTTPClient) SendPhoto(
	ctx context.Context,
	chatID int64,
	fileName string,
	data []byte,
	caption string,
) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if err != nil {
		return fmt.Errorf("failed to add chat_id field to multipart form: %w", err)
	}

	if caption != "" {
		if err = writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to add caption field to multipart form: %w", err)
		}
	}

	part, err := writer.CreateFormFile("photo", fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err = part.Write(data); err != nil {
		return fmt.Errorf("failed to write data to multipart form: %w", err)
	}

	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart form: %w", err)
	}

	ctx, cancelFunc := context.WithTimeout(ctx, timeoutDownload)
	defer cancelFunc()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = c.do(request)

	return err
}

// doRequest выполняет JSON запрос к Telegram API.
// Возвращает поле result ответа в случае успеха.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	params map[string]interface{},
) (json.RawMessage, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/json")

	return c.do(request)
}

func (c *HTTPClient) do(request *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  string          `json:"description"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode telegram response (status %d): %w", resp.StatusCode, err)
	}

	if !result.OK {
		return nil, fmt.Errorf("telegram api error: %s", result.Error)
	}

	return result.Result, nil
}

func (c *HTTPClient) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.endpoint, c.token, method)
}

func applyOptions(params map[string]interface{}, opts *SendOptions) {
	if opts == nil {
		return
	}

	if opts.ParseMode != "" {
		params["parse_mode"] = opts.ParseMode
	}

	if opts.ReplyMarkup != nil {
		params["reply_markup"] = opts.ReplyMarkup
	}
}

package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{"ok": true, "result": {"message_id": 77, "chat": {"id": 10}, "text": "hi"}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient("TOKEN", srv.URL)

	msg, err := c.SendMessage(context.Background(), 10, "hi", &SendOptions{
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "A", CallbackData: "opt:A"}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 77, msg.MessageID)

	assert.Equal(t, float64(10), got["chat_id"])
	assert.Equal(t, "hi", got["text"])
	assert.Contains(t, got, "reply_markup")
	assert.NotContains(t, got, "parse_mode")
}

func TestDoRequest_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok": false, "description": "Bad Request: message is not modified"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient("TOKEN", srv.URL)

	err := c.EditMessage(context.Background(), 1, 2, "same", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message is not modified")
}

func TestGetFileAndDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/getFile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok": true, "result": {"file_id": "f1", "file_path": "documents/q.pdf"}}`)
	})
	mux.HandleFunc("/file/botTOKEN/documents/q.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "%PDF-1.4")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient("TOKEN", srv.URL)
	ctx := context.Background()

	path, err := c.GetFile(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "documents/q.pdf", path)

	data, err := c.DownloadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = c.DownloadFile(ctx, "missing")
	assert.Error(t, err)
}

func TestSendPhoto_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "5", r.FormValue("chat_id"))
		assert.Equal(t, "Figure 1", r.FormValue("caption"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()

		body, _ := io.ReadAll(file)
		assert.Equal(t, "fig.png", header.Filename)
		assert.Equal(t, "PNG", string(body))

		_, _ = io.WriteString(w, `{"ok": true, "result": {}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient("TOKEN", srv.URL)

	err := c.SendPhoto(context.Background(), 5, "fig.png", []byte("PNG"), "Figure 1")
	assert.NoError(t, err)
}

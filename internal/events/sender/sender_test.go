package sender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

type stubClient struct {
	telegram.Client

	editErr   error
	edited    []int
	sent      []string
	callbacks []string
}

func (s *stubClient) SendMessage(
	_ context.Context,
	_ int64,
	text string,
	opts *telegram.SendOptions,
) (*telegram.Message, error) {
	if opts == nil || opts.ParseMode != "HTML" {
		return nil, errors.New("parse mode is not set")
	}

	s.sent = append(s.sent, text)

	return &telegram.Message{MessageID: 40 + len(s.sent)}, nil
}

func (s *stubClient) EditMessage(_ context.Context, _ int64, messageID int, _ string, _ *telegram.SendOptions) error {
	s.edited = append(s.edited, messageID)

	return s.editErr
}

func (s *stubClient) AnswerCallback(_ context.Context, _ string, text string) error {
	s.callbacks = append(s.callbacks, text)

	return nil
}

func TestScreen(t *testing.T) {
	tests := []struct {
		name      string
		messageID int
		editErr   error
		wantID    int
		wantSent  int
	}{
		{name: "new screen", messageID: 0, wantID: 41, wantSent: 1},
		{name: "edited in place", messageID: 7, wantID: 7},
		{
			name:      "not modified",
			messageID: 7,
			editErr:   errors.New("telegram api error: Bad Request: message is not modified"),
			wantID:    7,
		},
		{
			name:      "edit failed",
			messageID: 7,
			editErr:   errors.New("telegram api error: Bad Request: message to edit not found"),
			wantID:    41,
			wantSent:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubClient{editErr: tt.editErr}
			s := NewSender(c)

			id, err := s.Screen(context.Background(), 1, tt.messageID, "<b>screen</b>", nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Len(t, c.sent, tt.wantSent)
		})
	}
}

func TestNotify_SkipsEmptyCallback(t *testing.T) {
	c := &stubClient{}
	s := NewSender(c)

	require.NoError(t, s.Notify(context.Background(), "", "ignored"))
	require.NoError(t, s.Notify(context.Background(), "cb-1", "done"))

	assert.Equal(t, []string{"done"}, c.callbacks)
}

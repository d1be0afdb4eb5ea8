package bot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/domain/models"
	"github.com/letsssgooo/gateQuiz/internal/storage"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
	"github.com/letsssgooo/gateQuiz/internal/theme"
)

const testChat int64 = 100

// fakeTelegram хранит отправленные сообщения в памяти.
type fakeTelegram struct {
	mu sync.Mutex

	nextID    int
	last      int
	texts     map[int]string
	markups   map[int]*telegram.InlineKeyboardMarkup
	deleted   []int
	photos    []string
	callbacks []string
	files     map[string][]byte

	// тексты, отправленные в каждый чат
	byChat map[int64][]string
	// отправка в чат из blocked ждёт, пока канал не закроют
	blocked map[int64]chan struct{}

	updates [][]telegram.Update
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		texts:   make(map[int]string),
		markups: make(map[int]*telegram.InlineKeyboardMarkup),
		files:   make(map[string][]byte),
		byChat:  make(map[int64][]string),
		blocked: make(map[int64]chan struct{}),
	}
}

func (f *fakeTelegram) block(chatID int64) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	gate := make(chan struct{})
	f.blocked[chatID] = gate

	return gate
}

func (f *fakeTelegram) wait(chatID int64) {
	f.mu.Lock()
	gate := f.blocked[chatID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
}

// received считает сообщения с текстом text, отправленные в чат.
func (f *fakeTelegram) received(chatID int64, text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, sent := range f.byChat[chatID] {
		if sent == text {
			n++
		}
	}

	return n
}

func (f *fakeTelegram) SendMessage(
	_ context.Context,
	chatID int64,
	text string,
	opts *telegram.SendOptions,
) (*telegram.Message, error) {
	f.wait(chatID)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.texts[f.nextID] = text
	f.last = f.nextID
	f.byChat[chatID] = append(f.byChat[chatID], text)

	if opts != nil {
		f.markups[f.nextID] = opts.ReplyMarkup
	}

	return &telegram.Message{MessageID: f.nextID, Chat: &telegram.Chat{ID: chatID}, Text: text}, nil
}

func (f *fakeTelegram) EditMessage(
	_ context.Context,
	chatID int64,
	messageID int,
	text string,
	opts *telegram.SendOptions,
) error {
	f.wait(chatID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.texts[messageID]; !ok {
		return fmt.Errorf("telegram api error: Bad Request: message to edit not found")
	}

	f.texts[messageID] = text
	f.last = messageID

	if opts != nil {
		f.markups[messageID] = opts.ReplyMarkup
	}

	return nil
}

func (f *fakeTelegram) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.texts, messageID)
	f.deleted = append(f.deleted, messageID)

	return nil
}

func (f *fakeTelegram) AnswerCallback(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callbacks = append(f.callbacks, text)

	return nil
}

func (f *fakeTelegram) GetUpdates(ctx context.Context, _ int, _ int) ([]telegram.Update, error) {
	f.mu.Lock()

	if len(f.updates) != 0 {
		batch := f.updates[0]
		f.updates = f.updates[1:]
		f.mu.Unlock()

		return batch, nil
	}

	f.mu.Unlock()

	<-ctx.Done()

	return nil, ctx.Err()
}

func (f *fakeTelegram) GetFile(_ context.Context, fileID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.files[fileID]; !ok {
		return "", fmt.Errorf("telegram api error: Bad Request: invalid file_id")
	}

	return "documents/" + fileID, nil
}

func (f *fakeTelegram) DownloadFile(_ context.Context, filePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.files[strings.TrimPrefix(filePath, "documents/")], nil
}

func (f *fakeTelegram) SendPhoto(_ context.Context, _ int64, fileName string, _ []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.photos = append(f.photos, fileName)

	return nil
}

// screen возвращает текст последнего отправленного или изменённого сообщения.
func (f *fakeTelegram) screen() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.texts[f.last]
}

func (f *fakeTelegram) screenMarkup() *telegram.InlineKeyboardMarkup {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.markups[f.last]
}

func (f *fakeTelegram) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.nextID
}

// fakeAPI — бэкенд квизов в памяти.
type fakeAPI struct {
	mu sync.Mutex

	session models.QuizSession
	result  *models.QuizResult
	hints   map[int]string
	assets  map[string][]byte

	uploadErr error
	quizErr   error
	submitErr error
	hintErr   error

	// если не nil, GetHint и UploadPDFs ждут, пока канал не закроют
	hintGate   chan struct{}
	uploadGate chan struct{}

	uploaded   []string
	quizCalls  int
	hintCalls  int
	assetCalls int
	submitted  []models.AnswerSubmission
}

func (a *fakeAPI) UploadPDFs(_ context.Context, questions, answerKey client.File) (*models.UploadResponse, error) {
	qData, _ := io.ReadAll(questions.Reader)
	kData, _ := io.ReadAll(answerKey.Reader)

	a.mu.Lock()
	gate := a.uploadGate
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.uploaded = append(a.uploaded, questions.Name+"="+string(qData), answerKey.Name+"="+string(kData))

	if a.uploadErr != nil {
		return nil, a.uploadErr
	}

	return &models.UploadResponse{
		SessionID:      a.session.ID,
		TotalQuestions: len(a.session.Questions),
		Message:        "Quiz generated",
	}, nil
}

func (a *fakeAPI) GetQuiz(_ context.Context, sessionID string) (*models.QuizSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.quizCalls++

	if a.quizErr != nil {
		return nil, a.quizErr
	}

	if sessionID != a.session.ID {
		return nil, &client.APIError{Op: "get quiz", Status: 404, Detail: "Quiz session not found"}
	}

	session := a.session

	return &session, nil
}

func (a *fakeAPI) SubmitQuiz(
	_ context.Context,
	_ string,
	submission models.QuizSubmission,
) (*models.QuizResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.submitted = submission.Answers

	if a.submitErr != nil {
		return nil, a.submitErr
	}

	return a.result, nil
}

func (a *fakeAPI) GetHint(_ context.Context, _ string, number int) (*models.HintResponse, error) {
	a.mu.Lock()
	a.hintCalls++
	gate := a.hintGate
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.hintErr != nil {
		return nil, a.hintErr
	}

	return &models.HintResponse{QuestionNumber: number, Hint: a.hints[number]}, nil
}

func (a *fakeAPI) FetchAsset(_ context.Context, path string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.assetCalls++

	data, ok := a.assets[path]
	if !ok {
		return nil, &client.APIError{Op: "fetch asset", Status: 404}
	}

	return data, nil
}

func (a *fakeAPI) calls() (quiz, hint int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.quizCalls, a.hintCalls
}

// fiveQuestions — квиз из пяти вопросов всех типов.
func fiveQuestions() models.QuizSession {
	return models.QuizSession{
		ID:             "session-1",
		TotalQuestions: 5,
		Questions: []models.Question{
			{
				Number:       1,
				Text:         "Which gate is universal?",
				QuestionType: models.QuestionMCQSingle,
				Options:      map[string]string{"A": "AND", "B": "NAND", "C": "OR", "D": "XOR"},
			},
			{
				Number:       2,
				Text:         "Which are sorting algorithms?",
				QuestionType: models.QuestionMCQMultiple,
				Options:      map[string]string{"A": "Quick", "B": "Dijkstra", "C": "Merge", "D": "Prim"},
			},
			{Number: 3, Text: "How many edges in K4?", QuestionType: models.QuestionNATInteger},
			{Number: 4, Text: "Voltage across R2 (in V)?", QuestionType: models.QuestionNATDecimal},
			{
				Number:       5,
				Text:         "Time complexity of binary search?",
				QuestionType: models.QuestionMCQSingle,
				Options:      map[string]string{"A": "O(n)", "B": "O(log n)"},
			},
		},
	}
}

func newTestBot(t *testing.T) (*Bot, *fakeTelegram, *fakeAPI) {
	t.Helper()

	tg := newFakeTelegram()
	api := &fakeAPI{
		session: fiveQuestions(),
		hints:   map[int]string{4: "Use the voltage divider rule."},
		assets:  map[string][]byte{},
	}

	b := NewBot(Options{
		Telegram: tg,
		API:      api,
		Themes:   theme.NewStore(storage.NewMemoryStorage()),
	})

	return b, tg, api
}

var updateSeq int

func nextUpdateID() int {
	updateSeq++

	return updateSeq
}

func testUser() *telegram.User {
	return &telegram.User{ID: testChat, Username: "gate_student"}
}

func textUpdate(text string) telegram.Update {
	return textUpdateIn(testChat, text)
}

func textUpdateIn(chatID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: nextUpdateID(),
		Message: &telegram.Message{
			MessageID: 1000 + updateSeq,
			From:      &telegram.User{ID: chatID, Username: "gate_student"},
			Chat:      &telegram.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func docUpdate(fileID, name, caption string) telegram.Update {
	u := textUpdate("")
	u.Message.Caption = caption
	u.Message.Document = &telegram.Document{FileID: fileID, FileName: name, MimeType: "application/pdf"}

	return u
}

func callbackUpdate(data string) telegram.Update {
	id := nextUpdateID()

	return telegram.Update{
		UpdateID: id,
		CallbackQuery: &telegram.CallbackQuery{
			ID:      fmt.Sprintf("cb-%d", id),
			From:    testUser(),
			Message: &telegram.Message{MessageID: 1, Chat: &telegram.Chat{ID: testChat}},
			Data:    data,
		},
	}
}

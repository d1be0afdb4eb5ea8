package bot

import (
	"sync"
	"time"

	"github.com/letsssgooo/gateQuiz/internal/quiz"
)

// screen — экран, который сейчас показан в чате.
type screen int

const (
	screenUpload screen = iota
	screenQuiz
	screenResults
	screenReview
)

// pendingFile — PDF, присланный пользователем, но ещё не загруженный на бэкенд.
type pendingFile struct {
	FileID string
	Name   string
}

// chatState — всё, что бот помнит про один чат.
// mu держится на всё время обработки обновления, так что обновления одного чата
// обрабатываются по очереди.
type chatState struct {
	mu sync.Mutex

	store  *quiz.Store
	screen screen

	// id сообщения с экраном, которое редактируется на месте
	messageID int

	questionsPDF *pendingFile
	answerKeyPDF *pendingFile

	showGrid   bool
	confirming bool
	notice     string

	hintShown map[int]bool
	hintErr   map[int]string

	reviewIndex int

	// картинки уже отправленных вопросов, по номеру вопроса
	imagesSent map[int]bool

	// последнее обращение к чату, под Bot.mu
	lastSeen time.Time
}

func newChatState() *chatState {
	cs := &chatState{store: quiz.NewStore()}
	cs.resetView()

	return cs
}

// resetView сбрасывает состояние экрана, не трогая стор и загруженные файлы.
func (cs *chatState) resetView() {
	cs.showGrid = false
	cs.confirming = false
	cs.notice = ""
	cs.hintShown = make(map[int]bool)
	cs.hintErr = make(map[int]string)
	cs.reviewIndex = 0
	cs.imagesSent = make(map[int]bool)
}

func (cs *chatState) clearFiles() {
	cs.questionsPDF = nil
	cs.answerKeyPDF = nil
}

// busy сообщает, что чат ждёт ответа бэкенда.
func (cs *chatState) busy() bool {
	if cs.store.IsLoading() {
		return true
	}

	for _, loading := range cs.store.Snapshot().HintLoading {
		if loading {
			return true
		}
	}

	return false
}

package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/domain/models"
	"github.com/letsssgooo/gateQuiz/internal/quiz"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

const pdfMimeType = "application/pdf"

func (b *Bot) handleMessage(ctx context.Context, chatID int64, cs *chatState, msg *telegram.Message) error {
	cs.notice = ""

	if msg.Document != nil {
		b.handleDocument(cs, msg)

		return b.show(ctx, chatID, cs, true)
	}

	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		return b.handleCommand(ctx, chatID, cs, text)
	}

	if cs.screen == screenQuiz {
		b.handleAnswerText(cs, msg.Text)

		return b.show(ctx, chatID, cs, true)
	}

	_, err := b.sender.Message(ctx, chatID, msgHelp, nil)

	return err
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, cs *chatState, text string) error {
	fields := strings.Fields(text)
	command, _, _ := strings.Cut(fields[0], "@")

	slog.Debug("command", "chat_id", chatID, "command", command)

	switch command {
	case "/start", "/upload":
		cs.screen = screenUpload
		cs.clearFiles()
		cs.resetView()
		cs.store.SetError(quiz.OpUpload, "")

		return b.show(ctx, chatID, cs, true)
	case "/help":
		_, err := b.sender.Message(ctx, chatID, msgHelp, nil)

		return err
	case "/quiz":
		if len(fields) < 2 {
			_, err := b.sender.Message(ctx, chatID, msgQuizUsage, nil)

			return err
		}

		return b.openQuiz(ctx, chatID, cs, fields[1])
	case "/hint":
		if cs.screen == screenQuiz {
			b.toggleHint(ctx, chatID, cs)
		}

		return b.show(ctx, chatID, cs, true)
	case "/submit":
		if cs.screen == screenQuiz && len(cs.store.Questions()) != 0 {
			cs.confirming = true
		}

		return b.show(ctx, chatID, cs, true)
	case "/theme":
		if _, err := b.themes.Toggle(ctx, chatID); err != nil {
			slog.Warn("failed to save theme", "chat_id", chatID, "err", err)
		}

		return b.show(ctx, chatID, cs, true)
	}

	_, err := b.sender.Message(ctx, chatID, msgUnknownCommand, nil)

	return err
}

// handleDocument раскладывает присланные PDF: первый идёт в вопросы, второй в ключ ответов.
// Подпись "questions" или "key" выбирает слот явно.
func (b *Bot) handleDocument(cs *chatState, msg *telegram.Message) {
	doc := msg.Document

	if cs.screen != screenUpload {
		cs.screen = screenUpload
		cs.resetView()
	}

	cs.store.SetError(quiz.OpUpload, "")

	if !isPDF(doc) {
		cs.notice = msgOnlyPDF

		return
	}

	file := &pendingFile{FileID: doc.FileID, Name: doc.FileName}
	if file.Name == "" {
		file.Name = doc.FileID + ".pdf"
	}

	caption := strings.ToLower(msg.Caption)

	switch {
	case strings.Contains(caption, "key") || strings.Contains(caption, "answer"):
		cs.answerKeyPDF = file
	case strings.Contains(caption, "question"):
		cs.questionsPDF = file
	case cs.questionsPDF == nil:
		cs.questionsPDF = file
	case cs.answerKeyPDF == nil:
		cs.answerKeyPDF = file
	default:
		cs.notice = msgBothSelected
	}
}

func isPDF(doc *telegram.Document) bool {
	if doc.MimeType == pdfMimeType {
		return true
	}

	return strings.EqualFold(path.Ext(doc.FileName), ".pdf")
}

// handleAnswerText принимает ответ на числовой вопрос.
func (b *Bot) handleAnswerText(cs *chatState, text string) {
	q, ok := cs.store.CurrentQuestion()
	if !ok {
		return
	}

	if !q.QuestionType.IsNAT() {
		cs.notice = msgUseButtons

		return
	}

	previous, _ := cs.store.Answer(q.Number)

	answer, err := quiz.ParseNATInput(q.QuestionType, text, previous)
	if errors.Is(err, quiz.ErrNumberOutOfRange) {
		cs.notice = msgNumberTooLarge

		return
	}

	if err != nil {
		cs.notice = msgNotANumber

		return
	}

	cs.confirming = false

	if err = cs.store.SetAnswer(q.Number, answer); err != nil {
		slog.Error("failed to set answer", "question", q.Number, "err", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, cs *chatState, cb *telegram.CallbackQuery) error {
	action, arg := parseCallback(cb.Data)
	cs.notice = ""

	slog.Debug("callback", "chat_id", chatID, "action", action, "arg", arg)

	reply := ""

	switch action {
	case cbGenerate:
		if err := b.notify(ctx, cb.ID, ""); err != nil {
			slog.Debug("failed to answer callback", "err", err)
		}

		return b.upload(ctx, chatID, cs)
	case cbClear:
		cs.clearFiles()
		cs.store.SetError(quiz.OpUpload, "")
	case cbOption:
		reply = b.choose(cs, arg)
	case cbPrev:
		cs.confirming = false
		cs.store.PrevQuestion()
	case cbNext:
		cs.confirming = false
		cs.store.NextQuestion()
	case cbGo:
		if idx, err := strconv.Atoi(arg); err == nil {
			cs.confirming = false
			cs.store.GoToQuestion(idx)
		}
	case cbGrid:
		cs.showGrid = !cs.showGrid
	case cbHint:
		b.toggleHint(ctx, chatID, cs)
	case cbSubmit:
		if len(cs.store.Questions()) != 0 && !cs.store.Status(quiz.OpSubmit).Loading {
			cs.confirming = true
		}
	case cbConfirmNo:
		cs.confirming = false
	case cbConfirmYes:
		if err := b.notify(ctx, cb.ID, ""); err != nil {
			slog.Debug("failed to answer callback", "err", err)
		}

		return b.submit(ctx, chatID, cs)
	case cbReview:
		if cs.store.Result() != nil {
			cs.screen = screenReview
			cs.reviewIndex = 0
		}
	case cbReviewGo:
		if idx, err := strconv.Atoi(arg); err == nil {
			cs.screen = screenReview
			cs.reviewIndex = idx
		}
	case cbSummary:
		cs.screen = screenResults
	case cbRetake:
		cs.store.Reset()
		cs.clearFiles()
		cs.resetView()
		cs.screen = screenUpload
	case cbHome:
		cs.resetView()
		cs.screen = screenUpload
	case cbTheme:
		t, err := b.themes.Toggle(ctx, chatID)
		if err != nil {
			slog.Warn("failed to save theme", "chat_id", chatID, "err", err)
		}

		reply = fmt.Sprintf(msgThemeChanged, t)
	default:
		slog.Warn("unknown callback", "chat_id", chatID, "data", cb.Data)
	}

	if err := b.notify(ctx, cb.ID, reply); err != nil {
		slog.Debug("failed to answer callback", "err", err)
	}

	return b.show(ctx, chatID, cs, false)
}

func (b *Bot) notify(ctx context.Context, callbackID string, text string) error {
	return b.sender.Notify(ctx, callbackID, text)
}

// choose применяет нажатие варианта key к текущему вопросу.
func (b *Bot) choose(cs *chatState, key string) string {
	q, ok := cs.store.CurrentQuestion()
	if !ok || !q.QuestionType.IsMCQ() {
		return ""
	}

	if _, ok = q.Options[key]; !ok {
		return "Unknown option"
	}

	current, _ := cs.store.Answer(q.Number)

	if err := cs.store.SetAnswer(q.Number, quiz.ChoiceAnswer(q, current, key)); err != nil {
		slog.Error("failed to set answer", "question", q.Number, "err", err)

		return ""
	}

	cs.confirming = false

	return ""
}

// upload загружает оба PDF на бэкенд и открывает созданный квиз.
// Запрос идёт в фоне, чат в это время не заблокирован.
func (b *Bot) upload(ctx context.Context, chatID int64, cs *chatState) error {
	cs.screen = screenUpload

	if cs.store.Status(quiz.OpUpload).Loading {
		return b.show(ctx, chatID, cs, false)
	}

	if cs.questionsPDF == nil || cs.answerKeyPDF == nil {
		cs.store.SetError(quiz.OpUpload, errSelectBoth)

		return b.show(ctx, chatID, cs, false)
	}

	reqID := cs.store.Begin(quiz.OpUpload)
	questions, answerKey := *cs.questionsPDF, *cs.answerKeyPDF

	b.background(func() {
		resp, errMsg := b.uploadFiles(ctx, chatID, questions, answerKey)

		cs.mu.Lock()
		defer cs.mu.Unlock()

		if !cs.store.Finish(quiz.OpUpload, reqID, errMsg) {
			slog.Debug("dropping stale upload", "chat_id", chatID)

			return
		}

		if errMsg != "" {
			b.redraw(ctx, chatID, cs, false)

			return
		}

		slog.Info("quiz generated", "chat_id", chatID, "session_id", resp.SessionID, "total", resp.TotalQuestions)

		cs.clearFiles()

		if err := b.loadQuiz(ctx, chatID, cs, resp.SessionID); err != nil {
			slog.Warn("failed to show loading screen", "chat_id", chatID, "err", err)
		}
	})

	return b.show(ctx, chatID, cs, false)
}

// uploadFiles скачивает PDF из Telegram и загружает их на бэкенд.
// Вызывается без блокировки чата. Ошибка возвращается текстом для экрана.
func (b *Bot) uploadFiles(
	ctx context.Context,
	chatID int64,
	questions, answerKey pendingFile,
) (*models.UploadResponse, string) {
	questionsData, err := b.download(ctx, questions)
	if err != nil {
		slog.Error("failed to download questions pdf", "chat_id", chatID, "err", err)

		return nil, errDownloadFiles
	}

	answerKeyData, err := b.download(ctx, answerKey)
	if err != nil {
		slog.Error("failed to download answer key pdf", "chat_id", chatID, "err", err)

		return nil, errDownloadFiles
	}

	resp, err := b.api.UploadPDFs(ctx,
		client.File{Name: questions.Name, Reader: bytes.NewReader(questionsData)},
		client.File{Name: answerKey.Name, Reader: bytes.NewReader(answerKeyData)},
	)
	if err != nil {
		slog.Error("failed to upload pdfs", "chat_id", chatID, "err", err)

		return nil, client.ErrorMessage(err, errUploadFailed)
	}

	return resp, ""
}

func (b *Bot) download(ctx context.Context, f pendingFile) ([]byte, error) {
	filePath, err := b.files.GetFile(ctx, f.FileID)
	if err != nil {
		return nil, err
	}

	return b.files.DownloadFile(ctx, filePath)
}

// openQuiz открывает сессию по id. Если стор уже держит эту сессию, повторно её не грузит.
func (b *Bot) openQuiz(ctx context.Context, chatID int64, cs *chatState, sessionID string) error {
	if cs.store.SessionID() == sessionID && len(cs.store.Questions()) != 0 {
		cs.screen = screenQuiz
		cs.confirming = false

		return b.show(ctx, chatID, cs, true)
	}

	return b.loadQuiz(ctx, chatID, cs, sessionID)
}

// loadQuiz показывает экран загрузки и получает квиз в фоне. Вызывается под cs.mu.
func (b *Bot) loadQuiz(ctx context.Context, chatID int64, cs *chatState, sessionID string) error {
	cs.screen = screenQuiz
	cs.resetView()

	reqID := cs.store.Begin(quiz.OpLoadQuiz)

	b.background(func() {
		session, err := b.api.GetQuiz(ctx, sessionID)

		cs.mu.Lock()
		defer cs.mu.Unlock()

		errMsg := ""
		if err != nil {
			slog.Error("failed to load quiz", "chat_id", chatID, "session_id", sessionID, "err", err)
			errMsg = client.ErrorMessage(err, errLoadFailed)
		}

		if !cs.store.Finish(quiz.OpLoadQuiz, reqID, errMsg) {
			slog.Debug("dropping stale quiz", "chat_id", chatID, "session_id", sessionID)

			return
		}

		if errMsg != "" {
			b.redraw(ctx, chatID, cs, false)

			return
		}

		if session.ID == "" {
			session.ID = sessionID
		}

		cs.store.SetSession(session.ID, session.Questions)

		slog.Info("quiz loaded", "chat_id", chatID, "session_id", session.ID, "questions", len(session.Questions))

		b.redraw(ctx, chatID, cs, true)
	})

	return b.show(ctx, chatID, cs, false)
}

// submit отправляет собранные ответы, по одному на каждый вопрос. Запрос идёт в фоне.
func (b *Bot) submit(ctx context.Context, chatID int64, cs *chatState) error {
	cs.confirming = false

	sessionID := cs.store.SessionID()
	if sessionID == "" || cs.store.Status(quiz.OpSubmit).Loading {
		return b.show(ctx, chatID, cs, false)
	}

	reqID := cs.store.Begin(quiz.OpSubmit)
	submission := models.QuizSubmission{Answers: cs.store.AnswersForSubmission()}

	b.background(func() {
		result, err := b.api.SubmitQuiz(ctx, sessionID, submission)
		if err == nil && result == nil {
			err = errors.New("empty submit response")
		}

		cs.mu.Lock()
		defer cs.mu.Unlock()

		errMsg := ""
		if err != nil {
			slog.Error("failed to submit quiz", "chat_id", chatID, "session_id", sessionID, "err", err)
			errMsg = client.ErrorMessage(err, errSubmitFailed)
		}

		if !cs.store.Finish(quiz.OpSubmit, reqID, errMsg) {
			slog.Debug("dropping stale submit result", "chat_id", chatID, "session_id", sessionID)

			return
		}

		if errMsg == "" {
			cs.store.SetResult(result)
			cs.screen = screenResults

			slog.Info("quiz submitted", "chat_id", chatID, "session_id", sessionID, "score", result.ScorePercentage)
		}

		b.redraw(ctx, chatID, cs, false)
	})

	return b.show(ctx, chatID, cs, false)
}

// background запускает запрос к бэкенду без блокировки чата. Bot.Wait ждёт такие запросы.
func (b *Bot) background(fn func()) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		fn()
	}()
}

// redraw перерисовывает экран после ответа бэкенда. Вызывается под cs.mu.
func (b *Bot) redraw(ctx context.Context, chatID int64, cs *chatState, fresh bool) {
	if err := b.show(ctx, chatID, cs, fresh); err != nil {
		slog.Warn("failed to show screen", "chat_id", chatID, "err", err)
	}
}

// toggleHint показывает подсказку к текущему вопросу.
// Уже полученная подсказка только показывается или скрывается, повторного запроса нет.
// Запрос в полёте повторно не отправляется. Новый запрос идёт в фоне, не блокируя чат.
func (b *Bot) toggleHint(ctx context.Context, chatID int64, cs *chatState) {
	q, ok := cs.store.CurrentQuestion()
	if !ok {
		return
	}

	n := q.Number

	if _, ok = cs.store.Hint(n); ok {
		cs.hintShown[n] = !cs.hintShown[n]

		return
	}

	if cs.store.HintLoading(n) {
		return
	}

	sessionID := cs.store.SessionID()

	delete(cs.hintErr, n)
	cs.store.SetHintLoading(n, true)

	b.background(func() {
		b.fetchHint(ctx, chatID, cs, sessionID, n)
	})
}

func (b *Bot) fetchHint(ctx context.Context, chatID int64, cs *chatState, sessionID string, n int) {
	resp, err := b.api.GetHint(ctx, sessionID, n)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	// за время запроса сессия могла смениться
	if cs.store.SessionID() != sessionID {
		slog.Debug("dropping hint of a stale session", "chat_id", chatID, "session_id", sessionID)

		return
	}

	cs.store.SetHintLoading(n, false)

	if err != nil {
		slog.Error("failed to get hint", "chat_id", chatID, "question", n, "err", err)
		cs.hintErr[n] = hintErrorMessage(err)
	} else {
		slog.Debug("hint received", "chat_id", chatID, "question", n, "cached", resp.Cached)
		cs.store.SetHint(n, resp.Hint)
		cs.hintShown[n] = true
	}

	if cs.screen != screenQuiz {
		return
	}

	b.redraw(ctx, chatID, cs, false)
}

// hintErrorMessage — у подсказок показывается только detail бэкенда,
// иначе текст по умолчанию.
func hintErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}

	return errHintFailed
}

// show перерисовывает экран чата. fresh отправляет экран новым сообщением,
// удаляя старое, чтобы он оказался под последним сообщением пользователя.
func (b *Bot) show(ctx context.Context, chatID int64, cs *chatState, fresh bool) error {
	st := cs.store.Snapshot()

	if cs.screen == screenQuiz {
		if q, ok := st.CurrentQuestion(); ok && len(q.Images) != 0 && !cs.imagesSent[q.Number] {
			cs.imagesSent[q.Number] = true
			b.sendImages(ctx, chatID, q)

			fresh = true
		}
	}

	text, markup := cs.render(st, b.themes.Get(ctx, chatID))

	if fresh && cs.messageID != 0 {
		if err := b.sender.Delete(ctx, chatID, cs.messageID); err != nil {
			slog.Debug("failed to delete old screen", "chat_id", chatID, "err", err)
		}

		cs.messageID = 0
	}

	id, err := b.sender.Screen(ctx, chatID, cs.messageID, text, markup)
	if err != nil {
		return fmt.Errorf("failed to show screen: %w", err)
	}

	cs.messageID = id

	return nil
}

// sendImages отправляет картинки вопроса отдельными фото.
// Картинка, которую не удалось скачать, пропускается.
func (b *Bot) sendImages(ctx context.Context, chatID int64, q models.Question) {
	for i, image := range q.Images {
		data, err := b.api.FetchAsset(ctx, image)
		if err != nil {
			slog.Warn("failed to fetch figure", "chat_id", chatID, "question", q.Number, "image", image, "err", err)

			continue
		}

		caption := fmt.Sprintf("Question %d · figure %d", q.Number, i+1)

		if err = b.sender.Photo(ctx, chatID, path.Base(image), data, caption); err != nil {
			slog.Warn("failed to send figure", "chat_id", chatID, "question", q.Number, "err", err)
		}
	}
}

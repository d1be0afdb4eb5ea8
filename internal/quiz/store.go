package quiz

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/letsssgooo/gateQuiz/internal/domain/models"
)

// ErrAnswerMismatch — ответ не подходит к типу вопроса.
var ErrAnswerMismatch = errors.New("answer does not match question type")

// Store хранит состояние одной сессии квиза на стороне клиента.
// Все мутации выполняются под мьютексом, чтения отдают копии.
type Store struct {
	mu sync.RWMutex

	sessionID            string
	questions            []models.Question
	currentQuestionIndex int
	answers              map[int]models.Answer
	result               *models.QuizResult
	hints                map[int]string
	hintLoading          map[int]bool
	ops                  map[Op]*opState
	errSeq               uint64
}

// State — снимок стора.
type State struct {
	SessionID            string
	Questions            []models.Question
	CurrentQuestionIndex int
	Answers              map[int]models.Answer
	Result               *models.QuizResult
	Hints                map[int]string
	HintLoading          map[int]bool
	Ops                  map[Op]OpStatus
}

// Progress — счётчики прогресса.
type Progress struct {
	Total    int
	Current  int
	Answered int
}

// NewStore создаёт пустой стор.
func NewStore() *Store {
	s := &Store{}
	s.resetLocked()

	return s
}

func (s *Store) resetLocked() {
	s.sessionID = ""
	s.questions = nil
	s.currentQuestionIndex = 0
	s.answers = make(map[int]models.Answer)
	s.result = nil
	s.hints = make(map[int]string)
	s.hintLoading = make(map[int]bool)
	s.ops = make(map[Op]*opState)
	s.errSeq = 0
}

// SetSession загружает новую сессию: индекс в 0, ответы, результат и ошибки сбрасываются.
// Подсказки сбрасываются, если сменился идентификатор сессии.
func (s *Store) SetSession(sessionID string, questions []models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID != s.sessionID {
		s.hints = make(map[int]string)
		s.hintLoading = make(map[int]bool)
	}

	s.sessionID = sessionID
	s.questions = append([]models.Question(nil), questions...)
	s.currentQuestionIndex = 0
	s.answers = make(map[int]models.Answer)
	s.result = nil

	for _, st := range s.ops {
		st.Err = ""
	}
}

// SetAnswer записывает ответ на вопрос questionNumber, последняя запись выигрывает.
// Номер вопроса не проверяется, но ответ на загруженный вопрос должен подходить к его типу.
func (s *Store) SetAnswer(questionNumber int, answer models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.questions {
		if q.Number == questionNumber && !answer.Matches(q.QuestionType) {
			return fmt.Errorf("%w: question %d is %s", ErrAnswerMismatch, questionNumber, q.QuestionType)
		}
	}

	s.answers[questionNumber] = answer

	return nil
}

// GoToQuestion переходит к вопросу с индексом index. Индекс вне диапазона игнорируется.
func (s *Store) GoToQuestion(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index >= 0 && index < len(s.questions) {
		s.currentQuestionIndex = index
	}
}

// NextQuestion переходит к следующему вопросу, если он есть.
func (s *Store) NextQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentQuestionIndex < len(s.questions)-1 {
		s.currentQuestionIndex++
	}
}

// PrevQuestion переходит к предыдущему вопросу, если он есть.
func (s *Store) PrevQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentQuestionIndex > 0 {
		s.currentQuestionIndex--
	}
}

// SetResult сохраняет результат проверки как есть.
func (s *Store) SetResult(result *models.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = result
}

// Reset возвращает стор в начальное состояние.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// AnswersForSubmission возвращает по одному ответу на каждый загруженный вопрос в порядке вопросов.
// Вопросы без ответа уходят с null.
func (s *Store) AnswersForSubmission() []models.AnswerSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AnswerSubmission, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, models.AnswerSubmission{
			QuestionNumber: q.Number,
			Answer:         s.answers[q.Number],
		})
	}

	return out
}

// SetHint кэширует подсказку для вопроса.
func (s *Store) SetHint(questionNumber int, hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hints[questionNumber] = hint
}

// SetHintLoading выставляет флаг загрузки подсказки для вопроса.
func (s *Store) SetHintLoading(questionNumber int, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hintLoading[questionNumber] = loading
}

// Hint возвращает закэшированную подсказку.
func (s *Store) Hint(questionNumber int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hint, ok := s.hints[questionNumber]

	return hint, ok && hint != ""
}

// HintLoading сообщает, грузится ли подсказка.
func (s *Store) HintLoading(questionNumber int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hintLoading[questionNumber]
}

// Begin отмечает начало операции op и возвращает идентификатор запроса.
// Ошибка этой операции при этом сбрасывается.
func (s *Store) Begin(op Op) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.opLocked(op)
	st.Loading = true
	st.Err = ""
	st.RequestID = uuid.NewString()

	return st.RequestID
}

// Finish завершает запрос requestID операции op с ошибкой errMsg (пустая строка значит успех).
// Если после него уже начался новый запрос той же операции, ничего не меняется и возвращается false.
func (s *Store) Finish(op Op, requestID string, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.opLocked(op)
	if st.RequestID != requestID {
		return false
	}

	st.Loading = false
	s.setErrLocked(st, errMsg)

	return true
}

// SetLoading выставляет флаг загрузки операции op.
func (s *Store) SetLoading(op Op, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opLocked(op).Loading = loading
}

// SetError выставляет ошибку операции op. Пустая строка сбрасывает ошибку.
func (s *Store) SetError(op Op, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setErrLocked(s.opLocked(op), errMsg)
}

// Status возвращает состояние операции op.
func (s *Store) Status(op Op) OpStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.ops[op]; ok {
		return st.OpStatus
	}

	return OpStatus{}
}

// IsLoading сообщает, выполняется ли хоть одна операция.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.ops {
		if st.Loading {
			return true
		}
	}

	return false
}

// Error возвращает последнюю выставленную ошибку среди всех операций.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest string
		seq    uint64
	)

	for _, st := range s.ops {
		if st.Err != "" && st.errSeq >= seq {
			latest, seq = st.Err, st.errSeq
		}
	}

	return latest
}

func (s *Store) opLocked(op Op) *opState {
	st, ok := s.ops[op]
	if !ok {
		st = &opState{}
		s.ops[op] = st
	}

	return st
}

func (s *Store) setErrLocked(st *opState, errMsg string) {
	st.Err = errMsg
	if errMsg != "" {
		s.errSeq++
		st.errSeq = s.errSeq
	}
}

// SessionID возвращает идентификатор текущей сессии.
func (s *Store) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessionID
}

// Questions возвращает копию списка вопросов.
func (s *Store) Questions() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Question(nil), s.questions...)
}

// CurrentQuestionIndex возвращает индекс текущего вопроса.
func (s *Store) CurrentQuestionIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentQuestionIndex
}

// Answer возвращает ответ на вопрос. ok=false, если записи нет.
func (s *Store) Answer(questionNumber int) (models.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.answers[questionNumber]

	return a, ok
}

// Result возвращает результат проверки или nil.
func (s *Store) Result() *models.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.result
}

// CurrentQuestion возвращает текущий вопрос. ok=false, если вопросы не загружены.
func (s *Store) CurrentQuestion() (models.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.questions) == 0 {
		return models.Question{}, false
	}

	return s.questions[s.currentQuestionIndex], true
}

// Progress считает прогресс прохождения.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Progress{
		Total:    len(s.questions),
		Current:  s.currentQuestionIndex + 1,
		Answered: countAnswered(s.answers),
	}
}

func countAnswered(answers map[int]models.Answer) int {
	n := 0
	for _, a := range answers {
		if a.Attempted() {
			n++
		}
	}

	return n
}

// Snapshot возвращает копию всего состояния.
// Вопросы копируются поверхностно: карты вариантов общие и не должны меняться.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		SessionID:            s.sessionID,
		Questions:            append([]models.Question(nil), s.questions...),
		CurrentQuestionIndex: s.currentQuestionIndex,
		Answers:              make(map[int]models.Answer, len(s.answers)),
		Result:               s.result,
		Hints:                make(map[int]string, len(s.hints)),
		HintLoading:          make(map[int]bool, len(s.hintLoading)),
		Ops:                  make(map[Op]OpStatus, len(s.ops)),
	}

	for k, v := range s.answers {
		st.Answers[k] = v
	}

	for k, v := range s.hints {
		st.Hints[k] = v
	}

	for k, v := range s.hintLoading {
		st.HintLoading[k] = v
	}

	for k, v := range s.ops {
		st.Ops[k] = v.OpStatus
	}

	return st
}

// CurrentQuestion возвращает текущий вопрос снимка.
func (st State) CurrentQuestion() (models.Question, bool) {
	if len(st.Questions) == 0 {
		return models.Question{}, false
	}

	return st.Questions[st.CurrentQuestionIndex], true
}

// Progress считает прогресс по снимку.
func (st State) Progress() Progress {
	return Progress{
		Total:    len(st.Questions),
		Current:  st.CurrentQuestionIndex + 1,
		Answered: countAnswered(st.Answers),
	}
}

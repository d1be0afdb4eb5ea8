package models

import "sort"

// Файл с моделями, которыми клиент обменивается с сервисом квизов.
// Имена полей в JSON совпадают с API бэкенда.

// QuestionType — тип вопроса.
type QuestionType string

const (
	QuestionMCQSingle   QuestionType = "mcq_single"
	QuestionMCQMultiple QuestionType = "mcq_multiple"
	QuestionNATInteger  QuestionType = "nat_integer"
	QuestionNATDecimal  QuestionType = "nat_decimal"
)

// Valid сообщает, известен ли тип вопроса.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQSingle, QuestionMCQMultiple, QuestionNATInteger, QuestionNATDecimal:
		return true
	}

	return false
}

// IsMCQ — вопрос с вариантами ответа.
func (t QuestionType) IsMCQ() bool {
	return t == QuestionMCQSingle || t == QuestionMCQMultiple
}

// IsNAT — вопрос с числовым ответом.
func (t QuestionType) IsNAT() bool {
	return t == QuestionNATInteger || t == QuestionNATDecimal
}

// Label возвращает подпись типа для карточки вопроса.
func (t QuestionType) Label() string {
	switch t {
	case QuestionMCQSingle:
		return "MCQ (Single)"
	case QuestionMCQMultiple:
		return "MCQ (Multiple)"
	case QuestionNATInteger:
		return "NAT (Integer)"
	case QuestionNATDecimal:
		return "NAT (Decimal)"
	}

	return string(t)
}

// Question представляет вопрос квиза без правильного ответа.
type Question struct {
	Number       int               `json:"number"`
	Text         string            `json:"text"`
	QuestionType QuestionType      `json:"question_type"`
	Options      map[string]string `json:"options"`
	Images       []string          `json:"images,omitempty"`
}

// SortedOptionKeys возвращает ключи вариантов в лексикографическом порядке.
func (q Question) SortedOptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// UploadResponse — ответ на загрузку двух PDF.
type UploadResponse struct {
	SessionID      string `json:"session_id"`
	TotalQuestions int    `json:"total_questions"`
	Message        string `json:"message"`
}

// QuizSession — квиз, выданный бэкендом для сессии.
type QuizSession struct {
	ID             string     `json:"id"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
}

// AnswerSubmission — ответ на один вопрос при отправке.
type AnswerSubmission struct {
	QuestionNumber int    `json:"question_number"`
	Answer         Answer `json:"answer"`
}

// QuizSubmission — тело запроса на проверку.
type QuizSubmission struct {
	Answers []AnswerSubmission `json:"answers"`
}

// QuestionResult — результат проверки одного вопроса.
type QuestionResult struct {
	QuestionNumber int           `json:"question_number"`
	UserAnswer     Answer        `json:"user_answer"`
	CorrectAnswer  CorrectAnswer `json:"correct_answer"`
	IsCorrect      bool          `json:"is_correct"`
	QuestionType   QuestionType  `json:"question_type"`
}

// QuizResult — итог проверки квиза.
type QuizResult struct {
	SessionID       string           `json:"session_id"`
	TotalQuestions  int              `json:"total_questions"`
	Attempted       int              `json:"attempted"`
	Correct         int              `json:"correct"`
	Incorrect       int              `json:"incorrect"`
	Unattempted     int              `json:"unattempted"`
	ScorePercentage float64          `json:"score_percentage"`
	Results         []QuestionResult `json:"results"`
}

// ResultFor ищет результат по номеру вопроса.
func (r *QuizResult) ResultFor(number int) (QuestionResult, bool) {
	if r == nil {
		return QuestionResult{}, false
	}

	for _, res := range r.Results {
		if res.QuestionNumber == number {
			return res, true
		}
	}

	return QuestionResult{}, false
}

// HintResponse — подсказка к вопросу.
// Cached только информирует, что бэкенд отдал подсказку из своего кэша.
type HintResponse struct {
	QuestionNumber int    `json:"question_number"`
	Hint           string `json:"hint"`
	Cached         bool   `json:"cached"`
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AnswerKind — вариант ответа пользователя.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerChoice
	AnswerChoices
	AnswerInteger
	AnswerDecimal
)

// Answer — ответ пользователя на вопрос.
// Нулевое значение означает, что ответа нет (null).
type Answer struct {
	kind    AnswerKind
	choice  string
	choices []string
	number  float64
}

// NoAnswer возвращает пустой ответ.
func NoAnswer() Answer {
	return Answer{}
}

// SingleChoice — ответ на mcq_single.
func SingleChoice(key string) Answer {
	return Answer{kind: AnswerChoice, choice: key}
}

// MultipleChoice — ответ на mcq_multiple.
// Ключи дедуплицируются и сортируются, чтобы одинаковые выборы были равны.
func MultipleChoice(keys ...string) Answer {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))

	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, k)
	}

	sort.Strings(out)

	return Answer{kind: AnswerChoices, choices: out}
}

// IntegerAnswer — ответ на nat_integer.
func IntegerAnswer(v int64) Answer {
	return Answer{kind: AnswerInteger, number: float64(v)}
}

// DecimalAnswer — ответ на nat_decimal.
func DecimalAnswer(v float64) Answer {
	return Answer{kind: AnswerDecimal, number: v}
}

// Kind возвращает вариант ответа.
func (a Answer) Kind() AnswerKind {
	return a.kind
}

// IsNull сообщает, что ответа нет.
func (a Answer) IsNull() bool {
	return a.kind == AnswerNone
}

// Choice возвращает выбранный ключ для одиночного выбора.
func (a Answer) Choice() (string, bool) {
	return a.choice, a.kind == AnswerChoice
}

// Choices возвращает копию выбранных ключей.
// Одиночный выбор отдаётся как слайс из одного ключа.
func (a Answer) Choices() []string {
	switch a.kind {
	case AnswerChoices:
		out := make([]string, len(a.choices))
		copy(out, a.choices)

		return out
	case AnswerChoice:
		if a.choice == "" {
			return nil
		}

		return []string{a.choice}
	}

	return nil
}

// Number возвращает числовое значение ответа.
func (a Answer) Number() (float64, bool) {
	if a.kind == AnswerInteger || a.kind == AnswerDecimal {
		return a.number, true
	}

	return 0, false
}

// HasChoice проверяет, выбран ли ключ.
func (a Answer) HasChoice(key string) bool {
	switch a.kind {
	case AnswerChoice:
		return a.choice == key
	case AnswerChoices:
		for _, k := range a.choices {
			if k == key {
				return true
			}
		}
	}

	return false
}

// Attempted сообщает, считается ли вопрос отвеченным.
// Пустая строка и пустой выбор не считаются ответом, число 0 считается.
func (a Answer) Attempted() bool {
	switch a.kind {
	case AnswerChoice:
		return strings.TrimSpace(a.choice) != ""
	case AnswerChoices:
		return len(a.choices) > 0
	case AnswerInteger, AnswerDecimal:
		return true
	}

	return false
}

// Matches проверяет, подходит ли ответ к типу вопроса. Пустой ответ подходит к любому.
func (a Answer) Matches(t QuestionType) bool {
	switch a.kind {
	case AnswerNone:
		return true
	case AnswerChoice:
		return t == QuestionMCQSingle
	case AnswerChoices:
		return t == QuestionMCQMultiple
	case AnswerInteger:
		return t == QuestionNATInteger
	case AnswerDecimal:
		return t == QuestionNATDecimal
	}

	return false
}

// Equal сравнивает два ответа.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case AnswerChoice:
		return a.choice == b.choice
	case AnswerChoices:
		if len(a.choices) != len(b.choices) {
			return false
		}

		for i := range a.choices {
			if a.choices[i] != b.choices[i] {
				return false
			}
		}

		return true
	case AnswerInteger, AnswerDecimal:
		return a.number == b.number
	}

	return true
}

// String возвращает ответ в виде для показа пользователю.
func (a Answer) String() string {
	switch a.kind {
	case AnswerChoice:
		return a.choice
	case AnswerChoices:
		return strings.Join(a.choices, ", ")
	case AnswerInteger:
		return strconv.FormatInt(int64(a.number), 10)
	case AnswerDecimal:
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	}

	return ""
}

// MarshalJSON кодирует ответ как null, строку, массив строк или число.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerChoice:
		return json.Marshal(a.choice)
	case AnswerChoices:
		if a.choices == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(a.choices)
	case AnswerInteger:
		return []byte(strconv.FormatInt(int64(a.number), 10)), nil
	case AnswerDecimal:
		return json.Marshal(a.number)
	}

	return []byte("null"), nil
}

// UnmarshalJSON разбирает ответ, пришедший от бэкенда.
// Целое число без дробной части становится IntegerAnswer.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = NoAnswer()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*a = SingleChoice(s)

		return nil
	case '[':
		var keys []string
		if err := json.Unmarshal(data, &keys); err != nil {
			return fmt.Errorf("answer must be a list of option keys: %w", err)
		}

		*a = MultipleChoice(keys...)

		return nil
	}

	text := string(data)
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*a = IntegerAnswer(v)
		return nil
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("unsupported answer value %s", text)
	}

	*a = DecimalAnswer(v)

	return nil
}

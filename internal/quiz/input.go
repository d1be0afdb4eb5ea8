package quiz

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
)

// ToggleChoice переключает ключ в выборе mcq_multiple: убирает, если выбран, иначе добавляет.
// Результат всегда отсортирован.
func ToggleChoice(current models.Answer, key string) models.Answer {
	selected := current.Choices()

	for i, k := range selected {
		if k == key {
			return models.MultipleChoice(append(selected[:i], selected[i+1:]...)...)
		}
	}

	return models.MultipleChoice(append(selected, key)...)
}

// ChoiceAnswer строит ответ на нажатие варианта key для вопроса q.
func ChoiceAnswer(q models.Question, current models.Answer, key string) models.Answer {
	if q.QuestionType == models.QuestionMCQMultiple {
		return ToggleChoice(current, key)
	}

	return models.SingleChoice(key)
}

var (
	integerPrefix = regexp.MustCompile(`^[+-]?\d+`)
	decimalPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

var (
	// ErrNotANumber — ввод не начинается с числа.
	ErrNotANumber = errors.New("not a number")
	// ErrNumberOutOfRange — число не помещается в int64 или float64.
	ErrNumberOutOfRange = errors.New("number out of range")
)

// ParseNATInput разбирает ввод для числового вопроса.
// Пустой ввод и одиночный "-" дают пустой ответ. Как и поле ввода числа, берётся
// числовой префикс строки: "12abc" для целого даёт 12, "4.9" даёт 4.
// При ошибке возвращается previous, ответ не меняется.
func ParseNATInput(t models.QuestionType, input string, previous models.Answer) (models.Answer, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "-" {
		return models.NoAnswer(), nil
	}

	if t == models.QuestionNATInteger {
		m := integerPrefix.FindString(input)
		if m == "" {
			return previous, ErrNotANumber
		}

		v, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return previous, parseError(err)
		}

		return models.IntegerAnswer(v), nil
	}

	m := decimalPrefix.FindString(input)
	if m == "" {
		return previous, ErrNotANumber
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return previous, parseError(err)
	}

	return models.DecimalAnswer(v), nil
}

func parseError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %w", ErrNumberOutOfRange, err)
	}

	return fmt.Errorf("%w: %w", ErrNotANumber, err)
}

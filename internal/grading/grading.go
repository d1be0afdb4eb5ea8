package grading

import (
	"math"
	"sort"
	"strings"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
)

// DecimalTolerance — абсолютный допуск для nat_decimal с одиночным ответом.
const DecimalTolerance = 0.01

// IsNATCorrect сравнивает числовой ответ с правильным для экрана разбора.
//
// Интервал [low, high] включает обе границы. Для nat_integer сравнивается
// floor(ответа) с целью, поэтому 4.9 засчитывается при правильном 4.
// Для nat_decimal допускается отклонение DecimalTolerance.
func IsNATCorrect(t models.QuestionType, submitted models.Answer, correct models.CorrectAnswer) bool {
	v, ok := submitted.Number()
	if !ok {
		return false
	}

	switch correct.Kind {
	case models.CorrectRange:
		return v >= correct.Low && v <= correct.High
	case models.CorrectValue:
		if t == models.QuestionNATInteger {
			return math.Floor(v) == correct.Value
		}

		return math.Abs(v-correct.Value) <= DecimalTolerance
	}

	return false
}

// IsMCQCorrect — всё или ничего: выбранные ключи должны совпасть с правильными.
func IsMCQCorrect(submitted models.Answer, correct models.CorrectAnswer) bool {
	got := normalizeKeys(submitted.Choices())
	if len(got) == 0 {
		return false
	}

	var want []string

	switch correct.Kind {
	case models.CorrectKey:
		want = normalizeKeys([]string{correct.Key})
	case models.CorrectKeys:
		want = normalizeKeys(correct.Keys)
	default:
		return false
	}

	if len(got) != len(want) {
		return false
	}

	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}

	return true
}

// IsCorrect выбирает правило по типу вопроса.
func IsCorrect(t models.QuestionType, submitted models.Answer, correct models.CorrectAnswer) bool {
	if t.IsNAT() {
		return IsNATCorrect(t, submitted, correct)
	}

	return IsMCQCorrect(submitted, correct)
}

func normalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))

	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if _, ok := seen[k]; ok || k == "" {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// Mark — отметка варианта ответа на карточке.
type Mark int

const (
	MarkNone Mark = iota
	MarkSelected
	MarkCorrect
	MarkIncorrect
)

// OptionMark возвращает отметку варианта key.
// Вне разбора выбранный вариант просто выделяется; в разборе правильные
// варианты отмечаются всегда, а выбранные неправильные как ошибка.
func OptionMark(key string, selected models.Answer, correct models.CorrectAnswer, review bool) Mark {
	isSelected := selected.HasChoice(key)

	if !review {
		if isSelected {
			return MarkSelected
		}

		return MarkNone
	}

	if correct.Includes(key) {
		return MarkCorrect
	}

	if isSelected {
		return MarkIncorrect
	}

	return MarkNone
}

// Band — оценка результата для цвета итогового экрана.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// ScoreBand: good от 70%, fair от 40%, иначе poor.
func ScoreBand(percent float64) Band {
	switch {
	case percent >= 70:
		return BandGood
	case percent >= 40:
		return BandFair
	}

	return BandPoor
}

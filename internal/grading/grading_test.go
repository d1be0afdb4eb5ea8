package grading

import (
	"testing"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func value(v float64) models.CorrectAnswer {
	return models.CorrectAnswer{Kind: models.CorrectValue, Value: v}
}

func interval(low, high float64) models.CorrectAnswer {
	return models.CorrectAnswer{Kind: models.CorrectRange, Low: low, High: high}
}

func TestIsNATCorrect_DecimalTolerance(t *testing.T) {
	target := value(7.50)

	assert.True(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(7.51), target))
	assert.True(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(7.49), target))
	assert.True(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(7.5), target))
	assert.False(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(7.53), target))
	assert.False(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(7.47), target))
}

func TestIsNATCorrect_Interval(t *testing.T) {
	target := interval(2, 5)

	testCases := []struct {
		submitted float64
		want      bool
	}{
		{submitted: 2, want: true},
		{submitted: 5, want: true},
		{submitted: 3.7, want: true},
		{submitted: 1.99, want: false},
		{submitted: 5.01, want: false},
	}

	for _, tc := range testCases {
		got := IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(tc.submitted), target)
		assert.Equal(t, tc.want, got, "submitted %v", tc.submitted)
	}

	assert.True(t, IsNATCorrect(models.QuestionNATInteger, models.IntegerAnswer(3), target))
}

// Целочисленный ответ сравнивается через floor: 4.9 засчитывается как 4.
// Правило мягче обычного округления, но совпадает с экраном разбора, поэтому оставлено как есть.
func TestIsNATCorrect_IntegerFloorIsPermissive(t *testing.T) {
	target := value(4)

	assert.True(t, IsNATCorrect(models.QuestionNATInteger, models.DecimalAnswer(4.9), target))
	assert.True(t, IsNATCorrect(models.QuestionNATInteger, models.IntegerAnswer(4), target))
	assert.False(t, IsNATCorrect(models.QuestionNATInteger, models.DecimalAnswer(3.99), target))
	assert.False(t, IsNATCorrect(models.QuestionNATInteger, models.IntegerAnswer(5), target))
}

func TestIsNATCorrect_NoAnswer(t *testing.T) {
	assert.False(t, IsNATCorrect(models.QuestionNATDecimal, models.NoAnswer(), value(0)))
	assert.False(t, IsNATCorrect(models.QuestionNATDecimal, models.SingleChoice("A"), value(0)))
	assert.False(t, IsNATCorrect(models.QuestionNATDecimal, models.DecimalAnswer(0), models.CorrectAnswer{}))
}

func TestIsMCQCorrect(t *testing.T) {
	single := models.CorrectAnswer{Kind: models.CorrectKey, Key: "b"}
	multi := models.CorrectAnswer{Kind: models.CorrectKeys, Keys: []string{"C", "A"}}

	assert.True(t, IsMCQCorrect(models.SingleChoice("B"), single))
	assert.False(t, IsMCQCorrect(models.SingleChoice("A"), single))
	assert.True(t, IsMCQCorrect(models.MultipleChoice("A", "C"), multi))
	assert.False(t, IsMCQCorrect(models.MultipleChoice("A"), multi))
	assert.False(t, IsMCQCorrect(models.MultipleChoice("A", "B", "C"), multi))
	assert.False(t, IsMCQCorrect(models.NoAnswer(), multi))
}

func TestOptionMark(t *testing.T) {
	selected := models.MultipleChoice("A", "B")
	correct := models.CorrectAnswer{Kind: models.CorrectKeys, Keys: []string{"B", "C"}}

	assert.Equal(t, MarkSelected, OptionMark("A", selected, correct, false))
	assert.Equal(t, MarkNone, OptionMark("C", selected, correct, false))

	assert.Equal(t, MarkIncorrect, OptionMark("A", selected, correct, true))
	assert.Equal(t, MarkCorrect, OptionMark("B", selected, correct, true))
	assert.Equal(t, MarkCorrect, OptionMark("C", selected, correct, true))
	assert.Equal(t, MarkNone, OptionMark("D", selected, correct, true))
}

func TestScoreBand(t *testing.T) {
	assert.Equal(t, BandGood, ScoreBand(70))
	assert.Equal(t, BandFair, ScoreBand(69.9))
	assert.Equal(t, BandFair, ScoreBand(40))
	assert.Equal(t, BandPoor, ScoreBand(39.99))
}

package quiz

import (
	"testing"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestToggleChoice(t *testing.T) {
	testCases := []struct {
		name    string
		current models.Answer
		key     string
		want    []string
	}{
		{name: "empty selection", current: models.NoAnswer(), key: "B", want: []string{"B"}},
		{name: "insert keeps order", current: models.MultipleChoice("A", "D"), key: "B", want: []string{"A", "B", "D"}},
		{name: "remove present key", current: models.MultipleChoice("A", "B", "D"), key: "B", want: []string{"A", "D"}},
		{name: "remove last key", current: models.MultipleChoice("C"), key: "C", want: []string{}},
		{name: "from single choice", current: models.SingleChoice("D"), key: "A", want: []string{"A", "D"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToggleChoice(tc.current, tc.key)
			assert.Equal(t, models.AnswerChoices, got.Kind())
			assert.Equal(t, tc.want, got.Choices())
		})
	}
}

func TestToggleChoice_DoubleToggleIsIdentity(t *testing.T) {
	starts := []models.Answer{
		models.MultipleChoice(),
		models.MultipleChoice("A"),
		models.MultipleChoice("B"),
		models.MultipleChoice("D", "A", "C"),
		models.MultipleChoice("A", "B", "C", "D"),
	}

	for _, start := range starts {
		got := ToggleChoice(ToggleChoice(start, "B"), "B")
		assert.True(t, got.Equal(start), "start %v, got %v", start.Choices(), got.Choices())
	}
}

func TestChoiceAnswer(t *testing.T) {
	single := models.Question{Number: 1, QuestionType: models.QuestionMCQSingle}
	multi := models.Question{Number: 2, QuestionType: models.QuestionMCQMultiple}

	got := ChoiceAnswer(single, models.SingleChoice("A"), "C")
	assert.True(t, got.Equal(models.SingleChoice("C")))

	got = ChoiceAnswer(multi, models.MultipleChoice("C"), "A")
	assert.True(t, got.Equal(models.MultipleChoice("A", "C")))
}

func TestParseNATInput(t *testing.T) {
	previous := models.DecimalAnswer(1.25)

	testCases := []struct {
		name    string
		qt      models.QuestionType
		input   string
		want    models.Answer
		wantErr error
	}{
		{name: "empty clears", qt: models.QuestionNATDecimal, input: "", want: models.NoAnswer()},
		{name: "lone minus clears", qt: models.QuestionNATInteger, input: "-", want: models.NoAnswer()},
		{name: "integer", qt: models.QuestionNATInteger, input: "42", want: models.IntegerAnswer(42)},
		{name: "negative integer", qt: models.QuestionNATInteger, input: " -7 ", want: models.IntegerAnswer(-7)},
		{name: "integer truncates decimal", qt: models.QuestionNATInteger, input: "4.9", want: models.IntegerAnswer(4)},
		{name: "integer prefix", qt: models.QuestionNATInteger, input: "12abc", want: models.IntegerAnswer(12)},
		{name: "decimal", qt: models.QuestionNATDecimal, input: "7.50", want: models.DecimalAnswer(7.5)},
		{name: "decimal leading dot", qt: models.QuestionNATDecimal, input: ".5", want: models.DecimalAnswer(0.5)},
		{name: "decimal zero", qt: models.QuestionNATDecimal, input: "0", want: models.DecimalAnswer(0)},
		{name: "garbage keeps previous", qt: models.QuestionNATDecimal, input: "abc", want: previous, wantErr: ErrNotANumber},
		{name: "nan keeps previous", qt: models.QuestionNATDecimal, input: "NaN", want: previous, wantErr: ErrNotANumber},
		{name: "integer garbage keeps previous", qt: models.QuestionNATInteger, input: "x1", want: previous, wantErr: ErrNotANumber},
		{
			name:    "integer overflow keeps previous",
			qt:      models.QuestionNATInteger,
			input:   "99999999999999999999",
			want:    previous,
			wantErr: ErrNumberOutOfRange,
		},
		{
			name:    "decimal overflow keeps previous",
			qt:      models.QuestionNATDecimal,
			input:   "1e400",
			want:    previous,
			wantErr: ErrNumberOutOfRange,
		},
		{name: "large decimal fits", qt: models.QuestionNATDecimal, input: "99999999999999999999", want: models.DecimalAnswer(1e20)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNATInput(tc.qt, tc.input, previous)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.True(t, got.Equal(tc.want), "got %s", got.String())
		})
	}
}

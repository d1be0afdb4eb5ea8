package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/letsssgooo/gateQuiz/internal/domain/models"
	"github.com/letsssgooo/gateQuiz/internal/grading"
	"github.com/letsssgooo/gateQuiz/internal/quiz"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
	"github.com/letsssgooo/gateQuiz/internal/theme"
)

const (
	progressCells   = 10
	gridRowSize     = 5
	optionRowSize   = 2
	optionLabelRune = 24
)

// render рисует текущий экран чата. Вызывается под cs.mu.
func (cs *chatState) render(st quiz.State, th theme.Theme) (string, *telegram.InlineKeyboardMarkup) {
	p := th.Palette()

	switch cs.screen {
	case screenQuiz:
		return cs.renderQuiz(st, p)
	case screenResults:
		return renderResults(st.Result, p)
	case screenReview:
		return cs.renderReview(st, p)
	default:
		return cs.renderUpload(st, p)
	}
}

func (cs *chatState) renderUpload(st quiz.State, p theme.Palette) (string, *telegram.InlineKeyboardMarkup) {
	var b strings.Builder

	b.WriteString(msgUploadTitle)
	b.WriteString("\n\n")
	b.WriteString(msgUploadPrompt)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "📄 Questions: %s\n", fileLabel(cs.questionsPDF))
	fmt.Fprintf(&b, "🔑 Answer key: %s\n", fileLabel(cs.answerKeyPDF))

	upload := st.Ops[quiz.OpUpload]

	switch {
	case upload.Loading:
		b.WriteString("\n" + msgProcessing)
	case upload.Err != "":
		b.WriteString("\n⚠️ " + html.EscapeString(upload.Err))
	case cs.notice != "":
		b.WriteString("\n" + html.EscapeString(cs.notice))
	case cs.questionsPDF != nil && cs.answerKeyPDF == nil:
		b.WriteString("\n" + msgSendAnswerKey)
	}

	if upload.Loading {
		return b.String(), nil
	}

	return b.String(), keyboard(
		[]telegram.InlineKeyboardButton{button(btnGenerate, cbGenerate), button(btnClear, cbClear)},
		[]telegram.InlineKeyboardButton{button(p.Icon+" "+btnToggleTheme, cbTheme)},
	)
}

func fileLabel(f *pendingFile) string {
	if f == nil {
		return "—"
	}

	return "<b>" + html.EscapeString(f.Name) + "</b>"
}

func (cs *chatState) renderQuiz(st quiz.State, p theme.Palette) (string, *telegram.InlineKeyboardMarkup) {
	load := st.Ops[quiz.OpLoadQuiz]
	back := keyboard([]telegram.InlineKeyboardButton{button(btnBackUpload, cbHome)})

	switch {
	case load.Loading:
		return msgLoadingQuiz, nil
	case load.Err != "":
		return "⚠️ " + html.EscapeString(load.Err), back
	}

	q, ok := st.CurrentQuestion()
	if !ok {
		return msgNoQuestions, back
	}

	progress := st.Progress()
	answer := st.Answers[q.Number]

	var b strings.Builder

	fmt.Fprintf(&b, "<b>Question %d of %d</b> · %s\n", progress.Current, progress.Total, q.QuestionType.Label())
	fmt.Fprintf(&b, "%s  Progress: %d/%d answered\n\n", progressBar(progress, p), progress.Answered, progress.Total)
	b.WriteString(html.EscapeString(q.Text))
	b.WriteString("\n")

	if n := len(q.Images); n != 0 {
		fmt.Fprintf(&b, "\n🖼 Figures: %d (sent above)\n", n)
	}

	if q.QuestionType.IsMCQ() {
		b.WriteString("\n")

		if q.QuestionType == models.QuestionMCQMultiple {
			b.WriteString("<i>Select all that apply.</i>\n")
		}

		for _, key := range q.SortedOptionKeys() {
			fmt.Fprintf(&b, "%s <b>%s.</b> %s\n",
				choiceGlyph(q.QuestionType, answer.HasChoice(key), p),
				html.EscapeString(key),
				html.EscapeString(q.Options[key]),
			)
		}
	} else {
		fmt.Fprintf(&b, "\nYour answer: <b>%s</b>\n", answerLabel(answer))
		fmt.Fprintf(&b, "<i>Type %s to answer, send - to clear.</i>\n", natKind(q.QuestionType))
	}

	b.WriteString(cs.hintSection(st, q.Number, p))

	if cs.notice != "" {
		b.WriteString("\n⚠️ " + html.EscapeString(cs.notice) + "\n")
	}

	submit := st.Ops[quiz.OpSubmit]

	switch {
	case submit.Loading:
		b.WriteString("\n" + msgSubmitting + "\n")

		return b.String(), nil
	case submit.Err != "":
		b.WriteString("\n⚠️ " + html.EscapeString(submit.Err) + "\n")
	}

	if cs.confirming {
		b.WriteString("\n<b>" + fmt.Sprintf(msgConfirmSubmit, progress.Answered, progress.Total) + "</b>")

		return b.String(), keyboard([]telegram.InlineKeyboardButton{
			button(btnConfirm, cbConfirmYes),
			button(btnCancel, cbConfirmNo),
		})
	}

	return b.String(), cs.quizKeyboard(st, q, answer, p)
}

func (cs *chatState) hintSection(st quiz.State, number int, p theme.Palette) string {
	switch {
	case st.HintLoading[number]:
		return "\n" + p.Hint + " " + msgGeneratingHint + "\n"
	case cs.hintErr[number] != "":
		return "\n⚠️ " + html.EscapeString(cs.hintErr[number]) + "\n"
	case st.Hints[number] != "" && cs.hintShown[number]:
		return "\n" + p.Hint + " <b>Hint:</b> " + html.EscapeString(st.Hints[number]) + "\n"
	}

	return ""
}

func (cs *chatState) quizKeyboard(
	st quiz.State,
	q models.Question,
	answer models.Answer,
	p theme.Palette,
) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton

	if q.QuestionType.IsMCQ() {
		options := make([]telegram.InlineKeyboardButton, 0, len(q.Options))
		for _, key := range q.SortedOptionKeys() {
			label := choiceGlyph(q.QuestionType, answer.HasChoice(key), p) + " " + key
			if text := truncate(q.Options[key], optionLabelRune); text != "" {
				label += ". " + text
			}

			options = append(options, button(label, withArg(cbOption, key)))
		}

		rows = append(rows, chunk(options, optionRowSize)...)
	}

	rows = append(rows, []telegram.InlineKeyboardButton{button(p.Hint+" "+cs.hintButtonLabel(st, q.Number), cbHint)})

	var nav []telegram.InlineKeyboardButton
	if st.CurrentQuestionIndex > 0 {
		nav = append(nav, button(btnPrev, cbPrev))
	}

	if st.CurrentQuestionIndex < len(st.Questions)-1 {
		nav = append(nav, button(btnNext, cbNext))
	} else {
		nav = append(nav, button(btnSubmit, cbSubmit))
	}

	rows = append(rows, nav)

	gridLabel := btnShowAll
	if cs.showGrid {
		gridLabel = btnHideAll
	}

	rows = append(rows, []telegram.InlineKeyboardButton{button(gridLabel, cbGrid), button(btnSubmitNow, cbSubmit)})

	if cs.showGrid {
		grid := make([]telegram.InlineKeyboardButton, 0, len(st.Questions))

		for i, question := range st.Questions {
			glyph := p.Unanswered

			switch {
			case i == st.CurrentQuestionIndex:
				glyph = p.Current
			case st.Answers[question.Number].Attempted():
				glyph = p.Answered
			}

			grid = append(grid, button(glyph+strconv.Itoa(question.Number), withIndex(cbGo, i)))
		}

		rows = append(rows, chunk(grid, gridRowSize)...)
	}

	return keyboard(rows...)
}

func (cs *chatState) hintButtonLabel(st quiz.State, number int) string {
	switch {
	case st.HintLoading[number]:
		return msgGeneratingHint
	case st.Hints[number] == "":
		return btnGetHint
	case cs.hintShown[number]:
		return btnHideHint
	default:
		return btnShowHint
	}
}

func renderResults(result *models.QuizResult, p theme.Palette) (string, *telegram.InlineKeyboardMarkup) {
	if result == nil {
		return msgNoResult, keyboard([]telegram.InlineKeyboardButton{button(btnBackUpload, cbHome)})
	}

	var b strings.Builder

	b.WriteString("<b>Quiz Complete!</b>\n\n")
	fmt.Fprintf(&b, "🏆 <b>%.1f%%</b> (%s)\n", result.ScorePercentage, grading.ScoreBand(result.ScorePercentage))
	fmt.Fprintf(&b, "You scored <b>%d</b> out of %d\n\n", result.Correct, result.TotalQuestions)
	fmt.Fprintf(&b, "%s Correct: %d\n", p.Correct, result.Correct)
	fmt.Fprintf(&b, "%s Incorrect: %d\n", p.Incorrect, result.Incorrect)
	fmt.Fprintf(&b, "%s Unattempted: %d\n", p.Unanswered, result.Unattempted)

	if len(result.Results) != 0 {
		b.WriteString("\n<b>Question-wise breakdown</b>\n")

		cells := make([]string, 0, len(result.Results))

		for _, r := range result.Results {
			glyph := p.Incorrect

			switch {
			case r.IsCorrect:
				glyph = p.Correct
			case r.UserAnswer.IsNull():
				glyph = p.Unanswered
			}

			cells = append(cells, strconv.Itoa(r.QuestionNumber)+glyph)
		}

		for i := 0; i < len(cells); i += gridRowSize {
			end := i + gridRowSize
			if end > len(cells) {
				end = len(cells)
			}

			b.WriteString(strings.Join(cells[i:end], "  "))
			b.WriteString("\n")
		}
	}

	return b.String(), keyboard(
		[]telegram.InlineKeyboardButton{button(btnReview, cbReview)},
		[]telegram.InlineKeyboardButton{button(btnRetake, cbRetake)},
	)
}

func (cs *chatState) renderReview(st quiz.State, p theme.Palette) (string, *telegram.InlineKeyboardMarkup) {
	if st.Result == nil {
		return msgNoResult, keyboard([]telegram.InlineKeyboardButton{button(btnBackUpload, cbHome)})
	}

	summary := []telegram.InlineKeyboardButton{button(btnSummary, cbSummary), button(btnRetake, cbRetake)}

	if len(st.Questions) == 0 {
		return msgQuestionNotFound, keyboard(summary)
	}

	idx := clamp(cs.reviewIndex, 0, len(st.Questions)-1)
	q := st.Questions[idx]

	var b strings.Builder

	fmt.Fprintf(&b, "<b>Review · Question %d of %d</b> · %s\n\n", idx+1, len(st.Questions), q.QuestionType.Label())

	if r, ok := st.Result.ResultFor(q.Number); ok {
		b.WriteString(reviewCard(q, r, p))
	} else {
		b.WriteString("<i>" + msgQuestionNotFound + "</i>\n")
	}

	var rows [][]telegram.InlineKeyboardButton

	var nav []telegram.InlineKeyboardButton
	if idx > 0 {
		nav = append(nav, button(btnPrev, withIndex(cbReviewGo, idx-1)))
	}

	if idx < len(st.Questions)-1 {
		nav = append(nav, button(btnNext, withIndex(cbReviewGo, idx+1)))
	}

	rows = append(rows, nav)

	grid := make([]telegram.InlineKeyboardButton, 0, len(st.Questions))
	for i, question := range st.Questions {
		glyph := reviewGlyph(st.Result, question, p)
		if i == idx {
			glyph = p.Current
		}

		grid = append(grid, button(glyph+strconv.Itoa(question.Number), withIndex(cbReviewGo, i)))
	}

	rows = append(rows, chunk(grid, gridRowSize)...)
	rows = append(rows, summary)

	return b.String(), keyboard(rows...)
}

// reviewCard показывает вопрос с ответом пользователя и правильным ответом.
// Верно или нет, решают правила grading, как на экране разбора.
func reviewCard(q models.Question, r models.QuestionResult, p theme.Palette) string {
	qt := gradedType(q, r)

	var b strings.Builder

	b.WriteString(html.EscapeString(q.Text))
	b.WriteString("\n\n")

	if qt.IsMCQ() {
		for _, key := range q.SortedOptionKeys() {
			glyph := p.Unselected

			switch grading.OptionMark(key, r.UserAnswer, r.CorrectAnswer, true) {
			case grading.MarkCorrect:
				glyph = p.Correct
			case grading.MarkIncorrect:
				glyph = p.Incorrect
			}

			line := fmt.Sprintf("%s <b>%s.</b> %s", glyph, html.EscapeString(key), html.EscapeString(q.Options[key]))
			if r.UserAnswer.HasChoice(key) {
				line += " <i>(your answer)</i>"
			}

			b.WriteString(line + "\n")
		}

		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Your answer: <b>%s</b>\n", answerLabel(r.UserAnswer))
	fmt.Fprintf(&b, "Correct answer: <b>%s</b>\n\n", html.EscapeString(correctLabel(r.CorrectAnswer)))

	switch {
	case !r.UserAnswer.Attempted():
		b.WriteString(p.Unanswered + " Not attempted\n")
	case grading.IsCorrect(qt, r.UserAnswer, r.CorrectAnswer):
		b.WriteString(p.Correct + " Correct\n")
	default:
		b.WriteString(p.Incorrect + " Incorrect\n")
	}

	return b.String()
}

func reviewGlyph(result *models.QuizResult, q models.Question, p theme.Palette) string {
	r, ok := result.ResultFor(q.Number)

	switch {
	case !ok || !r.UserAnswer.Attempted():
		return p.Unanswered
	case grading.IsCorrect(gradedType(q, r), r.UserAnswer, r.CorrectAnswer):
		return p.Correct
	default:
		return p.Incorrect
	}
}

// gradedType — тип, по которому проверяется ответ: из результата, если бэкенд его прислал.
// Карточка и сетка разбора должны брать его одинаково.
func gradedType(q models.Question, r models.QuestionResult) models.QuestionType {
	if r.QuestionType.Valid() {
		return r.QuestionType
	}

	return q.QuestionType
}

func choiceGlyph(t models.QuestionType, selected bool, p theme.Palette) string {
	if t == models.QuestionMCQMultiple {
		if selected {
			return p.CheckOn
		}

		return p.CheckOff
	}

	if selected {
		return p.Selected
	}

	return p.Unselected
}

func progressBar(progress quiz.Progress, p theme.Palette) string {
	filled := 0
	if progress.Total > 0 {
		filled = progress.Answered * progressCells / progress.Total
	}

	return strings.Repeat(p.Answered, filled) + strings.Repeat(p.Unanswered, progressCells-filled)
}

func answerLabel(a models.Answer) string {
	if !a.Attempted() {
		return "—"
	}

	return html.EscapeString(a.String())
}

func correctLabel(c models.CorrectAnswer) string {
	if s := c.String(); s != "" {
		return s
	}

	return "—"
}

func natKind(t models.QuestionType) string {
	if t == models.QuestionNATInteger {
		return "an integer"
	}

	return "a number"
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)

	return string(runes[:limit-1]) + "…"
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}

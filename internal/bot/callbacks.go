package bot

import (
	"strconv"
	"strings"

	"github.com/letsssgooo/gateQuiz/internal/telegram"
)

// Данные inline кнопок. Аргумент, если есть, идёт после двоеточия.
const (
	cbGenerate   = "upload"
	cbClear      = "upload:clear"
	cbOption     = "opt"
	cbPrev       = "nav:prev"
	cbNext       = "nav:next"
	cbGo         = "go"
	cbGrid       = "grid"
	cbHint       = "hint"
	cbSubmit     = "submit"
	cbConfirmYes = "confirm:yes"
	cbConfirmNo  = "confirm:no"
	cbReview     = "review"
	cbReviewGo   = "rv"
	cbSummary    = "summary"
	cbRetake     = "retake"
	cbHome       = "home"
	cbTheme      = "theme"
)

// withArg — callback с аргументом, например "opt:B" или "go:3".
func withArg(action string, arg string) string {
	return action + ":" + arg
}

func withIndex(action string, idx int) string {
	return withArg(action, strconv.Itoa(idx))
}

// parseCallback делит данные кнопки на действие и аргумент.
// Действия без аргумента возвращаются целиком.
func parseCallback(data string) (action string, arg string) {
	switch data {
	case cbClear, cbPrev, cbNext, cbConfirmYes, cbConfirmNo:
		return data, ""
	}

	action, arg, _ = strings.Cut(data, ":")

	return action, arg
}

func button(text string, data string) telegram.InlineKeyboardButton {
	return telegram.InlineKeyboardButton{Text: text, CallbackData: data}
}

func keyboard(rows ...[]telegram.InlineKeyboardButton) *telegram.InlineKeyboardMarkup {
	kb := &telegram.InlineKeyboardMarkup{}

	for _, row := range rows {
		if len(row) != 0 {
			kb.InlineKeyboard = append(kb.InlineKeyboard, row)
		}
	}

	if len(kb.InlineKeyboard) == 0 {
		return nil
	}

	return kb
}

// chunk раскладывает кнопки по рядам длины size.
func chunk(buttons []telegram.InlineKeyboardButton, size int) [][]telegram.InlineKeyboardButton {
	var rows [][]telegram.InlineKeyboardButton

	for len(buttons) > size {
		rows = append(rows, buttons[:size])
		buttons = buttons[size:]
	}

	if len(buttons) != 0 {
		rows = append(rows, buttons)
	}

	return rows
}

package utils

import (
	"github.com/go-telegram/bot/models"
)

type Button struct {
	Text         string
	CallbackData string
	URL          string
}

// BuildInlineKeyboard turns button rows into an inline keyboard, padding
// labels so narrow buttons stay tappable.
func BuildInlineKeyboard(rows [][]Button) models.InlineKeyboardMarkup {
	pad := func(s string) string { return " " + s + " " }
	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			line = append(line, models.InlineKeyboardButton{
				Text:         pad(b.Text),
				CallbackData: b.CallbackData,
				URL:          b.URL,
			})
		}
		keyboard = append(keyboard, line)
	}
	return models.InlineKeyboardMarkup{
		InlineKeyboard: keyboard,
	}
}

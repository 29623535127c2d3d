package keyboard

import "github.com/go-telegram/bot/models"

// Builder собирает inline-клавиатуру по рядам
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Row добавляет ряд; пустой ряд пропускается
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Len число рядов
func (b *Builder) Len() int {
	return len(b.rows)
}

// Build готовая клавиатура. Для пустого builder возвращает nil, чтобы не отправлять пустую разметку.
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	if len(b.rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

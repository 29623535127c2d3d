package keyboard

import "github.com/go-telegram/bot/models"

func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Подтвердить", callbackData)
}

// ConfirmCancelRow ряд Подтвердить/Отмена
func ConfirmCancelRow(confirmCallback, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		ConfirmButton(confirmCallback),
		CancelButton(cancelCallback),
	}
}

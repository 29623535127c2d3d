package common

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// AnswerCallbackAlert ответ всплывающим окном
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	return callback.Message.Message
}

// ParseArg аргумент callback data после префикса: "cancel_reservation:<id>" -> "<id>"
func ParseArg(data, prefix string) (string, error) {
	arg, found := strings.CutPrefix(data, prefix)
	if !found || arg == "" || strings.Contains(arg, ":") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return arg, nil
}

// IsMessageNotModifiedError Telegram отказал в редактировании, потому что текст не изменился
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// SendPhoto отправляет PNG файлом-картинкой
func SendPhoto(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) error {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	return err
}

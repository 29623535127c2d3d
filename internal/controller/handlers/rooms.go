package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/rooms"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const searchUsage = "🔎 Формат: /search &lt;дата&gt; &lt;начало&gt; &lt;конец&gt; &lt;мест&gt; [тип]\n\n" +
	"Например:\n" +
	"/search 15.03.2024 10:00 11:30 20\n" +
	"/search завтра 9:00 10:00 4 лаборатория\n\n" +
	"Типы: лекционная, аудитория, лаборатория, читальная, переговорная"

const bookUsage = "📌 Формат: /book &lt;номер из поиска&gt; [цель]\n\nСначала найдите аудиторию: /search"

// HandleSearch обрабатывает /search
func (h *Handlers) HandleSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	q, err := ParseSearchArgs(commandArgs(update.Message.Text), h.today())
	if err != nil {
		if errors.Is(err, ErrUsage) {
			h.sendMessage(ctx, b, chatID, searchUsage, nil)
			return
		}
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	result, err := h.reservationService.SearchRooms(ctx, q)
	if err != nil {
		h.logger.Warn("Room search failed", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.SetData(user.TelegramID, state.KeySearchQuery, result.Query)
	h.stateManager.SetData(user.TelegramID, state.KeySearchResults, result.Rooms)

	h.logger.Info("Rooms searched",
		zap.Int64("user_id", user.ID),
		zap.String("date", result.Query.Date.Format("2006-01-02")),
		zap.Int("found", len(result.Rooms)),
		zap.Bool("from_cache", result.FromCache))

	text, kb := common.BuildSearchResultsScreen(result.Query, result.Rooms, result.FromCache)
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleBook обрабатывает /book <n> [цель]. Без цели бот спросит её отдельным сообщением.
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendMessage(ctx, b, chatID, bookUsage, nil)
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(ctx, b, chatID, bookUsage, nil)
		return
	}

	room, err := rooms.SelectRoom(h.deps.StateManager, user.TelegramID, n)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	purpose := strings.TrimSpace(strings.Join(args[1:], " "))
	if purpose == "" {
		h.sendMessage(ctx, b, chatID, rooms.PurposePrompt(room), nil)
		return
	}

	h.createReservation(ctx, b, chatID, user, purpose)
}

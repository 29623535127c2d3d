package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/keyboard"
	timetablecb "github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/timetable"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const addClassUsage = "➕ Формат: /addclass &lt;день&gt; &lt;начало&gt; &lt;конец&gt; &lt;название&gt; [@ аудитория]\n\n" +
	"Например: /addclass Понедельник 09:00 10:30 Матанализ @ A-101"

// HandleTimetable обрабатывает /timetable: текстовая сетка и картинка недели
func (h *Handlers) HandleTimetable(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	view, err := h.timetableService.Week(ctx, user)
	if err != nil {
		h.logger.Error("Failed to load timetable", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text := formatting.FormatWeek(view.Grid, user.Role)
	if view.FromCache {
		text += "\n\n⚠️ Сервис недоступен, показано сохранённое расписание."
	}

	if view.Grid.Empty() {
		h.sendMessage(ctx, b, chatID, text, nil)
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🖼 Картинкой ещё раз", common.TimetableImage)).
		Build()
	h.sendMessage(ctx, b, chatID, text, kb)

	if err := timetablecb.SendWeekImage(ctx, b, h.deps, chatID, user, view); err != nil {
		h.logger.Warn("Failed to send timetable image", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// HandleAddClass обрабатывает /addclass
func (h *Handlers) HandleAddClass(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	raw, err := ParseClassArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendMessage(ctx, b, chatID, addClassUsage, nil)
		return
	}
	if user.Role == model.RoleProfessor && raw.Instructor == "" {
		raw.Instructor = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}

	entry, err := h.timetableService.AddEntry(ctx, user, raw)
	if err != nil {
		h.logger.Warn("Failed to add class", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ Занятие добавлено\n\n<b>%s</b>, %s-%s\n%s · 📍 %s\n\nID: <code>%s</code>",
		formatting.GetDayName(entry.Day), entry.StartTime, entry.EndTime,
		html.EscapeString(entry.Name), html.EscapeString(entry.Location), entry.ID), nil)
}

// HandleRemoveClass обрабатывает /removeclass <id>. Без аргумента показывает ID занятий.
func (h *Handlers) HandleRemoveClass(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendEntryIDs(ctx, b, chatID, user)
		return
	}

	if err := h.timetableService.RemoveEntry(ctx, user, args[0]); err != nil {
		h.logger.Warn("Failed to remove class", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, "🗑 Занятие удалено. Расписание: /timetable", nil)
}

func (h *Handlers) sendEntryIDs(ctx context.Context, b *bot.Bot, chatID int64, user *model.User) {
	view, err := h.timetableService.Week(ctx, user)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	if view.Grid.Empty() {
		h.sendMessage(ctx, b, chatID, "📭 В расписании нет занятий.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🗑 Формат: /removeclass &lt;id&gt;\n\n")
	for _, day := range model.Weekdays {
		for _, e := range timetable.SortByStart(view.Grid.Entries(day)) {
			fmt.Fprintf(&sb, "%s %s-%s %s\n<code>%s</code>\n\n",
				formatting.GetWeekdayShort(formatting.Weekday(day)), e.StartTime, e.EndTime, html.EscapeString(e.Name), e.ID)
		}
	}

	h.sendMessage(ctx, b, chatID, strings.TrimRight(sb.String(), "\n"), nil)
}

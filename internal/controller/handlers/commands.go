package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	registeredUser, err := h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот бронирования аудиторий кампуса.\n"+
			"Ваша роль: <b>%s</b>\n\n"+
			"/search - Найти свободную аудиторию\n"+
			"/myreservations - Мои брони\n"+
			"/timetable - Моё расписание\n"+
			"/stats - Часы брони за неделю\n"+
			"/help - Справка",
		html.EscapeString(registeredUser.FirstName),
		formatting.GetRoleName(registeredUser.Role),
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"<b>Бронирование</b>\n" +
		"/search &lt;дата&gt; &lt;начало&gt; &lt;конец&gt; &lt;мест&gt; [тип]\n" +
		"   например: /search завтра 10:00 11:30 12 лаборатория\n" +
		"/book &lt;номер&gt; [цель] - Забронировать аудиторию из результатов поиска\n" +
		"/myreservations - Мои брони и отмена\n" +
		"/stats - Одобренные часы за неделю\n\n" +
		"<b>Расписание</b>\n" +
		"/timetable - Сетка недели (текст и картинка)\n" +
		"/addclass &lt;день&gt; &lt;начало&gt; &lt;конец&gt; &lt;название&gt; [@ аудитория]\n" +
		"/removeclass &lt;id&gt; - Удалить занятие\n\n" +
		"<b>Профиль</b>\n" +
		"/role student|professor - Сменить роль\n" +
		"/cancel - Прервать текущий диалог\n\n" +
		"<b>Администраторам</b>\n" +
		"/pending - Заявки на рассмотрении\n" +
		"/approve &lt;id&gt;, /reject &lt;id&gt; [причина]\n" +
		"/autoreject - Отклонить просроченные заявки"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// HandleRole обрабатывает команду /role <student|professor>
func (h *Handlers) HandleRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"👤 Ваша роль: <b>%s</b>\n\nСменить: /role student или /role professor",
			formatting.GetRoleName(user.Role)), nil)
		return
	}

	updated, err := h.userService.SetRole(ctx, user.TelegramID, model.Role(strings.ToLower(args[0])))
	if err != nil {
		h.logger.Warn("Failed to change role", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	// Книга броней и снимки ведутся отдельно для каждой роли
	h.sessions.Book(updated)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Теперь ваша роль: <b>%s</b>", formatting.GetRoleName(updated.Role)), nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		return
	case state.StateEnteringPurpose:
		h.handlePurposeStep(ctx, b, update)
	case state.StateEnteringRejectReason:
		h.handleRejectReasonStep(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}

// handlePurposeStep последний шаг брони: цель введена, подаём заявку
func (h *Handlers) handlePurposeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	purpose := strings.TrimSpace(update.Message.Text)
	if purpose == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "✏️ Цель брони не может быть пустой. Попробуйте ещё раз или /cancel")
		return
	}

	h.createReservation(ctx, b, update.Message.Chat.ID, user, purpose)
}

// handleRejectReasonStep администратор ввёл причину отклонения
func (h *Handlers) handleRejectReasonStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(update.Message.From.ID)
		return
	}

	raw, ok := h.stateManager.GetData(user.TelegramID, state.KeyRejectBooking)
	bookingID, _ := raw.(string)
	if !ok || bookingID == "" {
		h.stateManager.ClearState(user.TelegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Заявка не выбрана. Откройте /pending")
		return
	}

	h.stateManager.ClearState(user.TelegramID)
	h.rejectReservation(ctx, b, update.Message.Chat.ID, user, bookingID, strings.TrimSpace(update.Message.Text))
}

// createReservation подаёт заявку на аудиторию, выбранную в диалоге
func (h *Handlers) createReservation(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, purpose string) {
	rawRoom, okRoom := h.stateManager.GetData(user.TelegramID, state.KeyBookingRoom)
	rawQuery, okQuery := h.stateManager.GetData(user.TelegramID, state.KeySearchQuery)
	room, roomOK := rawRoom.(model.Room)
	q, queryOK := rawQuery.(timetable.Query)
	if !okRoom || !okQuery || !roomOK || !queryOK {
		h.stateManager.ClearState(user.TelegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrNoSearch))
		return
	}

	booking, err := h.reservationService.Create(ctx, user, room.ID, q, purpose)
	if err != nil {
		h.logger.Warn("Failed to create reservation",
			zap.Int64("user_id", user.ID),
			zap.String("room_id", room.ID),
			zap.Error(err))
		h.stateManager.ClearState(user.TelegramID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(user.TelegramID)

	// Новая бронь должна появиться в /myreservations
	if _, err := h.sessions.Book(user).Load(ctx); err != nil {
		h.logger.Warn("Failed to refresh reservations", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ <b>Заявка отправлена</b>\n\n%s\n\nАдминистратор рассмотрит её до даты брони. Мои брони: /myreservations",
		formatting.FormatReservation(*booking)), nil)

	h.notifyAdmins(ctx, b, booking, user)
}

// notifyAdmins сообщает администраторам о новой заявке
func (h *Handlers) notifyAdmins(ctx context.Context, b *bot.Bot, booking *model.Booking, requester *model.User) {
	admins, err := h.userService.Admins(ctx)
	if err != nil {
		h.logger.Warn("Failed to load admins", zap.Error(err))
		return
	}

	text := "📥 <b>Новая заявка</b>\n\n" + formatting.FormatPendingReservation(*booking, requester)
	_, kb := admin.PendingScreen(ctx, h.deps, []model.Booking{*booking}, 0)

	for _, a := range admins {
		h.sendMessage(ctx, b, a.TelegramID, text, kb)
	}
}

package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/handlers"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Диалоги, брошенные дольше dialogTTL, сбрасываются
const (
	dialogTTL           = time.Hour
	dialogSweepInterval = 10 * time.Minute
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	userService     *service.UserService
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	reservationService *service.ReservationService,
	timetableService *service.TimetableService,
	snapshots service.SnapshotStore,
	loc *time.Location,
	autoReject handlers.AutoRejectFunc,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()
	sessions := state.NewSessions(reservationService, snapshots, logger)

	deps := &callbacktypes.Handler{
		UserService:        userService,
		ReservationService: reservationService,
		TimetableService:   timetableService,
		Books:              sessions,
		StateManager:       state.NewAdapter(stateManager),
		Location:           loc,
		Logger:             logger,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(deps, sessions, stateManager, autoReject),
		callbackHandler: callbacks.NewHandler(deps),
		stateManager:    stateManager,
		userService:     userService,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/role", bot.MatchTypePrefix, c.handlers.HandleRole)

	// Бронирование
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/search", bot.MatchTypePrefix, c.handlers.HandleSearch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypePrefix, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myreservations", bot.MatchTypeExact, c.handlers.HandleMyReservations)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, c.handlers.HandleStats)

	// Расписание
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timetable", bot.MatchTypeExact, c.handlers.HandleTimetable)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addclass", bot.MatchTypePrefix, c.handlers.HandleAddClass)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/removeclass", bot.MatchTypePrefix, c.handlers.HandleRemoveClass)

	// Администраторы
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypeExact, c.handlers.HandlePending)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/approve", bot.MatchTypePrefix, c.handlers.HandleApprove)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reject", bot.MatchTypePrefix, c.handlers.HandleReject)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/autoreject", bot.MatchTypeExact, c.handlers.HandleAutoReject)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "search", Description: "🔎 Найти свободную аудиторию"},
		{Command: "myreservations", Description: "📋 Мои брони"},
		{Command: "timetable", Description: "🗓 Моё расписание"},
		{Command: "stats", Description: "📊 Часы брони за неделю"},
		{Command: "role", Description: "👤 Сменить роль"},
		{Command: "pending", Description: "📥 Заявки (администратор)"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// ReportAutoReject сообщает администраторам об итогах авто-отклонения
func (c *BotController) ReportAutoReject(ctx context.Context, result service.AutoRejectResult, err error) {
	if result.Rejected == 0 && err == nil {
		return
	}

	admins, adminsErr := c.userService.Admins(ctx)
	if adminsErr != nil {
		c.logger.Warn("Failed to load admins for auto-reject report", zap.Error(adminsErr))
		return
	}

	text := fmt.Sprintf("🧹 Авто-отклонение: отклонено %d из %d просроченных заявок", result.Rejected, result.Found)
	if err != nil {
		text += fmt.Sprintf("\n⚠️ Ошибок: %d", max(result.Errors, 1))
	}

	for _, admin := range admins {
		if _, sendErr := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: admin.TelegramID,
			Text:   text,
		}); sendErr != nil {
			c.logger.Warn("Failed to send auto-reject report",
				zap.Int64("telegram_id", admin.TelegramID),
				zap.Error(sendErr))
		}
	}
}

// Start запускает бота. Блокируется до отмены ctx.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	go c.sweepDialogs(ctx)
	c.bot.Start(ctx)
	return nil
}

func (c *BotController) sweepDialogs(ctx context.Context) {
	ticker := time.NewTicker(dialogSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.stateManager.Expire(dialogTTL); n > 0 {
				c.logger.Debug("Expired idle dialogs", zap.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}

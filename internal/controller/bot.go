package controller

import (
	"context"

	"github.com/VaInBlAt/appointment-bot/internal/app"
	"github.com/VaInBlAt/appointment-bot/internal/controller/handlers"
	"github.com/VaInBlAt/appointment-bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(botInstance *bot.Bot, application *app.App, logger *zap.Logger) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager(application.Now)

	svc := application.Services
	cmdHandlers := handlers.NewHandlers(
		svc.Users,
		svc.Schedules,
		svc.Availability,
		svc.Appointments,
		svc.DayOffs,
		stateManager,
		application.Now,
		logger.Named("handlers"),
	)

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// Sessions диалоги пользователей, их чистит фоновый планировщик
func (c *BotController) Sessions() *state.Manager {
	return c.stateManager
}

// RegisterHandlers регистрирует обработчик команд и меню
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Все команды разбираются в одном месте, чтобы /cancel не перехватывал /cancel_appointment
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, c.handlers.HandleCommand)

	return c.setCommands(ctx)
}

// HandleDefault отвечает на сообщения, не являющиеся командами
func (c *BotController) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Я понимаю только команды. Используйте /help",
	})
	if err != nil {
		c.logger.Warn("Failed to answer message", zap.Error(err))
	}
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: c.handlers.Commands(),
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

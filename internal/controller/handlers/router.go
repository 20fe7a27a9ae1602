package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

// usageError подсказка по формату команды
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }
func (e *usageError) Unwrap() error { return errUsage }

func usage(u string) error { return &usageError{usage: u} }

type command struct {
	usage       string
	description string
	run         func(ctx context.Context, userID int64, args []string) (Reply, error)
}

func (h *Handlers) commandTable() map[string]command {
	return map[string]command{
		"start":              {"/start", "🚀 Начать работу с ботом", h.start},
		"help":               {"/help", "❓ Справка по командам", h.help},
		"register":           {"/register <doctor|patient> <ФИО>", "📝 Регистрация", h.register},
		"contacts":           {"/contacts <ДД.ММ.ГГГГ> <телефон>", "📇 Дата рождения и телефон", h.contacts},
		"doctor":             {"/doctor <адрес>; <специальность>", "🏥 Кабинет и специальность (врач)", h.doctorProfile},
		"find":               {"/find <запрос>", "🔎 Найти врача", h.find},
		"schedule":           {"/schedule <мин> <ЧЧ:ММ-ЧЧ:ММ> <ЧЧ:ММ-ЧЧ:ММ>", "🗓 Настроить приём (врач)", h.schedule},
		"slots":              {"/slots <id врача> <ГГГГ-ММ-ДД> [primary|repeat]", "🕒 Свободные слоты", h.slots},
		"book":               {"/book <id врача> <ГГГГ-ММ-ДД> <ЧЧ:ММ-ЧЧ:ММ> <primary|repeat>", "✍️ Записаться", h.book},
		"my":                 {"/my", "📅 Мои записи", h.myAppointments},
		"cancel_appointment": {"/cancel_appointment <id записи>", "🗑 Отменить запись", h.cancelAppointment},
		"appointments":       {"/appointments [страница] [ГГГГ-ММ-ДД]", "📋 Записи ко мне (врач)", h.doctorAppointments},
		"confirm":            {"/confirm <id записи>", "✅ Подтвердить запись (врач)", h.confirm},
		"dayoff":             {"/dayoff", "🌴 Редактировать выходные (врач)", h.dayOffStart},
		"toggle":             {"/toggle <ГГГГ-ММ-ДД|пн..вс>", "🔁 Переключить выходной", h.dayOffToggle},
		"dayoff_save":        {"/dayoff_save", "💾 Сохранить выходные", h.dayOffSave},
		"cancel":             {"/cancel", "✖️ Отменить текущую операцию", h.cancel},
		"week":               {"/week [ГГГГ-ММ-ДД]", "🖼 Неделя приёма (врач)", h.week},
	}
}

// commandOrder порядок команд в меню и справке
var commandOrder = []string{
	"start", "help", "register", "contacts", "doctor", "find",
	"slots", "book", "my", "cancel_appointment",
	"schedule", "appointments", "confirm", "dayoff", "toggle", "dayoff_save", "week",
	"cancel",
}

// parseCommand разбирает "/cmd@bot арг1 арг2" на имя и аргументы
func parseCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), fields[1:], true
}

// Execute выполняет текстовую команду от пользователя
func (h *Handlers) Execute(ctx context.Context, userID int64, message string) Reply {
	name, args, ok := parseCommand(message)
	if !ok {
		return say("Неизвестная команда. Используйте /help")
	}

	cmd, exists := h.commands[name]
	if !exists {
		return say("Неизвестная команда. Используйте /help")
	}

	reply, err := cmd.run(ctx, userID, args)
	if err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			return say("ℹ️ Формат: " + ue.usage)
		}
		if !isDomainError(err) {
			h.logger.Error("Command failed",
				zap.String("command", name),
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
		return say(ErrorMessage(err))
	}
	return reply
}

// HandleCommand обрабатывает все текстовые команды бота
func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	h.logger.Debug("Command received",
		zap.Int64("user_id", userID),
		zap.String("text", update.Message.Text))

	reply := h.Execute(ctx, userID, update.Message.Text)
	h.send(ctx, b, update.Message.Chat.ID, reply)
}

// send отправляет ответ: фото с подписью или обычное сообщение
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, reply Reply) {
	var err error
	if len(reply.Photo) > 0 {
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(reply.Photo)},
			Caption: reply.Text,
		})
	} else {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   reply.Text,
		})
	}
	if err != nil {
		h.logger.Error("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Commands меню бота
func (h *Handlers) Commands() []models.BotCommand {
	list := make([]models.BotCommand, 0, len(commandOrder))
	for _, name := range commandOrder {
		list = append(list, models.BotCommand{Command: name, Description: h.commands[name].description})
	}
	return list
}

func (h *Handlers) helpText() string {
	var sb strings.Builder
	sb.WriteString("📚 Справка по командам:\n\n")
	for _, name := range commandOrder {
		cmd := h.commands[name]
		fmt.Fprintf(&sb, "%s\n   %s\n", cmd.usage, cmd.description)
	}
	return sb.String()
}

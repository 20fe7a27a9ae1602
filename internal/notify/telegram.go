// Package notify доставляет пациентам уведомления об отменённых записях.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Sender часть *bot.Bot, нужная для отправки сообщений
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier отправляет уведомления в личный чат пациента.
// Идентификатор пациента совпадает с его Telegram ID.
type TelegramNotifier struct {
	sender  Sender
	retries uint64
	backoff time.Duration
	logger  *zap.Logger
}

func NewTelegramNotifier(sender Sender, retries uint64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:  sender,
		retries: retries,
		backoff: 500 * time.Millisecond,
		logger:  logger,
	}
}

// Notify отправляет уведомление с экспоненциальными повторами
func (n *TelegramNotifier) Notify(ctx context.Context, patientID int64, date string, reason service.NotifyReason) error {
	params := &bot.SendMessageParams{
		ChatID: patientID,
		Text:   Message(date, reason),
	}

	attempt := 0
	backoff := retry.WithMaxRetries(n.retries, retry.NewExponential(n.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if _, err := n.sender.SendMessage(ctx, params); err != nil {
			n.logger.Debug("Notification attempt failed",
				zap.Int64("patient_id", patientID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("notify patient %d: %w", patientID, err)
	}

	n.logger.Info("Patient notified",
		zap.Int64("patient_id", patientID),
		zap.String("date", date),
		zap.String("reason", string(reason)))
	return nil
}

// Message текст уведомления для пациента
func Message(date string, reason service.NotifyReason) string {
	shown := date
	if t, err := model.ParseDate(date, nil); err == nil {
		shown = t.Format("02.01.2006")
	}

	switch reason {
	case service.ReasonDayOff:
		return fmt.Sprintf("❌ Ваша запись на %s была отменена, пожалуйста, запишитесь на другое время", shown)
	default:
		return fmt.Sprintf("❌ Ваша запись на %s была отменена", shown)
	}
}

// LogNotifier пишет уведомления в лог. Используется там, где бота нет.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, patientID int64, date string, reason service.NotifyReason) error {
	n.logger.Info("Notification skipped: no transport",
		zap.Int64("patient_id", patientID),
		zap.String("date", date),
		zap.String("text", Message(date, reason)))
	return nil
}

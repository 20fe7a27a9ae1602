package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySender struct {
	failures int
	calls    int
	last     *bot.SendMessageParams
}

func (s *flakySender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.calls++
	s.last = params
	if s.calls <= s.failures {
		return nil, errors.New("too many requests")
	}
	return &models.Message{ID: s.calls}, nil
}

func newNotifier(sender Sender, retries uint64) *TelegramNotifier {
	n := NewTelegramNotifier(sender, retries, zap.NewNop())
	n.backoff = time.Millisecond
	return n
}

func TestNotifyRetriesUntilDelivered(t *testing.T) {
	sender := &flakySender{failures: 2}

	err := newNotifier(sender, 3).Notify(context.Background(), 42, "2025-06-10", service.ReasonDayOff)
	require.NoError(t, err)
	assert.Equal(t, 3, sender.calls)
	assert.Equal(t, int64(42), sender.last.ChatID)
	assert.Equal(t, "❌ Ваша запись на 10.06.2025 была отменена, пожалуйста, запишитесь на другое время", sender.last.Text)
}

func TestNotifyGivesUp(t *testing.T) {
	sender := &flakySender{failures: 10}

	err := newNotifier(sender, 2).Notify(context.Background(), 42, "2025-06-10", service.ReasonDayOff)
	assert.Error(t, err)
	assert.Equal(t, 3, sender.calls)
}

func TestLogNotifierNeverFails(t *testing.T) {
	assert.NoError(t, NewLogNotifier(zap.NewNop()).Notify(context.Background(), 1, "2025-06-10", service.ReasonDayOff))
}

package state

import (
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/service"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Врач редактирует выходные
	StateEditingDayOffs UserState = "editing_day_offs"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	DayOffs   *service.DayOffSession
	TouchedAt time.Time
}

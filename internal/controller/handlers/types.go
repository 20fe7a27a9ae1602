package handlers

import (
	"fmt"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/controller/state"
	"github.com/VaInBlAt/appointment-bot/internal/service"
	"go.uber.org/zap"
)

// pageSize сколько записей показывать на одной странице
const pageSize = 5

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService         *service.UserService
	scheduleService     *service.ScheduleService
	availabilityService *service.AvailabilityService
	appointmentService  *service.AppointmentService
	dayOffService       *service.DayOffService
	stateManager        *state.Manager
	now                 func() time.Time
	logger              *zap.Logger

	commands map[string]command
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	scheduleService *service.ScheduleService,
	availabilityService *service.AvailabilityService,
	appointmentService *service.AppointmentService,
	dayOffService *service.DayOffService,
	stateManager *state.Manager,
	now func() time.Time,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		userService:         userService,
		scheduleService:     scheduleService,
		availabilityService: availabilityService,
		appointmentService:  appointmentService,
		dayOffService:       dayOffService,
		stateManager:        stateManager,
		now:                 now,
		logger:              logger,
	}
	h.commands = h.commandTable()
	return h
}

// Reply ответ на команду: текст и, возможно, картинка
type Reply struct {
	Text  string
	Photo []byte
}

func say(s string) Reply {
	return Reply{Text: s}
}

func sayf(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

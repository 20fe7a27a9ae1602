package model

import "errors"

// Ошибки предметной области. Все они исправимы на уровне диалога:
// пользователю предлагается повторить ввод.
var (
	ErrNoScheduleConfigured  = errors.New("doctor has no schedule configured")
	ErrSlotAlreadyBooked     = errors.New("slot already booked")
	ErrSlotUnavailable       = errors.New("slot is not available")
	ErrInvalidTimeFormat     = errors.New("invalid time format")
	ErrInvalidPeriodOrdering = errors.New("period end must be after start")
	ErrInvalidSlotDuration   = errors.New("invalid slot duration")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidAppointment    = errors.New("invalid appointment type")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrPastDateSelected      = errors.New("past date selected")

	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidFIO        = errors.New("invalid fio")
	ErrInvalidPhone      = errors.New("invalid phone")
	ErrInvalidBirthDate  = errors.New("invalid birth date")
	ErrProfileIncomplete = errors.New("patient profile is incomplete")
	ErrNotDoctor         = errors.New("user is not a doctor")
)

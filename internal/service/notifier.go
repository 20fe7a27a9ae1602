package service

import "context"

// NotifyReason причина уведомления пациента
type NotifyReason string

const (
	// ReasonDayOff врач отметил день записи выходным
	ReasonDayOff NotifyReason = "day_off"
)

// Notifier внешний канал уведомлений пациентов. Ошибки доставки
// логируются вызывающим и не отменяют операцию.
type Notifier interface {
	Notify(ctx context.Context, patientID int64, date string, reason NotifyReason) error
}

package model

import (
	"fmt"
	"sort"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения врача
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена врачом
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypePrimary AppointmentType = "primary" // Первичный приём
	AppointmentTypeRepeat  AppointmentType = "repeat"  // Повторный приём
)

func (t AppointmentType) Valid() bool {
	return t == AppointmentTypePrimary || t == AppointmentTypeRepeat
}

// ParseAppointmentType проверяет тип приёма
func ParseAppointmentType(s string) (AppointmentType, error) {
	t := AppointmentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppointment, s)
	}
	return t, nil
}

type Appointment struct {
	ID               string            `json:"appointment_id"`
	DoctorID         int64             `json:"doctor_id,string"`
	PatientID        int64             `json:"patient_id,string"`
	PatientFIO       string            `json:"patient_fio"`
	PatientBirthDate string            `json:"patient_birth_date"`
	PatientPhone     string            `json:"patient_phone"`
	Date             string            `json:"date"`      // YYYY-MM-DD
	TimeSlot         string            `json:"time_slot"` // ЧЧ:ММ-ЧЧ:ММ
	Type             AppointmentType   `json:"appointment_type"`
	Status           AppointmentStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Active сообщает, занимает ли запись слот
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}

// Validate проверяет поля, без которых запись не может существовать в реестре
func (a *Appointment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("appointment without id")
	}
	if !a.Status.Valid() {
		return fmt.Errorf("appointment %s: unknown status %q", a.ID, a.Status)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("appointment %s: %w: %q", a.ID, ErrInvalidAppointment, a.Type)
	}
	if _, err := ParseDate(a.Date, nil); err != nil {
		return fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	if _, err := ParseSlot(a.TimeSlot); err != nil {
		return fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	return nil
}

// SortAppointments сортирует записи по дате, затем по слоту
func SortAppointments(list []*Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].TimeSlot < list[j].TimeSlot
	})
}

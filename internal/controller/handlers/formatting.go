package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
)

var weekdayNames = [...]string{"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье"}

// StatusDisplay emoji и текст статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

func statusDisplay(status model.AppointmentStatus) StatusDisplay {
	switch status {
	case model.AppointmentStatusPending:
		return StatusDisplay{"⏳", "Ожидает подтверждения"}
	case model.AppointmentStatusConfirmed:
		return StatusDisplay{"✅", "Подтверждена"}
	case model.AppointmentStatusCancelled:
		return StatusDisplay{"❌", "Отменена"}
	default:
		return StatusDisplay{"❓", "Неизвестно"}
	}
}

func typeName(t model.AppointmentType) string {
	if t == model.AppointmentTypeRepeat {
		return "повторный"
	}
	return "первичный"
}

// formatDate "2025-06-10" -> "10.06.2025 (вторник)"
func formatDate(date string) string {
	t, err := model.ParseDate(date, time.UTC)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), weekdayNames[model.WeekdayOf(t)])
}

func formatDayOff(d model.DayOff) string {
	if w, ok := d.Weekday(); ok && w.Valid() {
		return everyWeekday(w)
	}
	date, _ := d.Date()
	return formatDate(date)
}

func everyWeekday(w model.Weekday) string {
	switch w {
	case model.Wednesday:
		return "каждую среду"
	case model.Friday:
		return "каждую пятницу"
	case model.Saturday:
		return "каждую субботу"
	case model.Sunday:
		return "каждое воскресенье"
	default:
		return "каждый " + weekdayNames[w]
	}
}

func formatDayOffs(items []model.DayOff) string {
	if len(items) == 0 {
		return "нет"
	}
	parts := make([]string, len(items))
	for i, d := range items {
		parts[i] = formatDayOff(d)
	}
	return strings.Join(parts, ", ")
}

// formatAppointment карточка записи. forDoctor добавляет данные пациента.
func formatAppointment(a *model.Appointment, forDoctor bool) string {
	display := statusDisplay(a.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s, %s приём\n", display.Emoji, formatDate(a.Date), a.TimeSlot, typeName(a.Type))
	if forDoctor {
		fmt.Fprintf(&sb, "👤 %s, %s, %s\n", a.PatientFIO, a.PatientBirthDate, a.PatientPhone)
	} else {
		fmt.Fprintf(&sb, "👨‍⚕️ Врач #%d\n", a.DoctorID)
	}
	fmt.Fprintf(&sb, "📊 %s\n🆔 %s", display.Text, a.ID)
	return sb.String()
}

func formatDoctor(u *model.User) string {
	r := u.Registration
	return fmt.Sprintf("👨‍⚕️ %s (id %d)\n   %s, %s", model.ShortName(r.FIO), u.ID, r.Specialty, r.OfficeAddress)
}

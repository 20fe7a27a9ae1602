package handlers

import (
	"testing"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "10.06.2025 (вторник)", formatDate("2025-06-10"))
	assert.Equal(t, "garbage", formatDate("garbage"))
}

func TestFormatDayOffs(t *testing.T) {
	items := model.NewDayOffSet(
		model.WeekdayOff(model.Saturday),
		model.DayOff("2025-06-12"),
	).Items()

	assert.Equal(t, "каждую субботу, 12.06.2025 (четверг)", formatDayOffs(items))
	assert.Equal(t, "нет", formatDayOffs(nil))
}

func TestFormatAppointment(t *testing.T) {
	a := &model.Appointment{
		ID:               "abc",
		DoctorID:         7,
		PatientFIO:       "Петров Пётр Петрович",
		PatientBirthDate: "01.02.1990",
		PatientPhone:     "+79991234567",
		Date:             "2025-06-10",
		TimeSlot:         "09:00-09:30",
		Type:             model.AppointmentTypeRepeat,
		Status:           model.AppointmentStatusConfirmed,
	}

	doctorView := formatAppointment(a, true)
	assert.Contains(t, doctorView, "10.06.2025 (вторник) 09:00-09:30, повторный приём")
	assert.Contains(t, doctorView, "Петров Пётр Петрович")
	assert.Contains(t, doctorView, "Подтверждена")

	patientView := formatAppointment(a, false)
	assert.Contains(t, patientView, "Врач #7")
	assert.NotContains(t, patientView, "+79991234567")
}

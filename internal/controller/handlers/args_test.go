package handlers

import (
	"testing"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	name, args, ok := parseCommand("/book@clinic_bot 7 2025-06-10  09:00-09:30 primary")
	require.True(t, ok)
	assert.Equal(t, "book", name)
	assert.Equal(t, []string{"7", "2025-06-10", "09:00-09:30", "primary"}, args)

	name, args, ok = parseCommand("/Cancel_Appointment")
	require.True(t, ok)
	assert.Equal(t, "cancel_appointment", name)
	assert.Empty(t, args)

	_, _, ok = parseCommand("привет")
	assert.False(t, ok)
	_, _, ok = parseCommand("   ")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, err := parseRole("Врач")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, role)

	role, err = parseRole("patient")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, role)

	_, err = parseRole("admin")
	assert.ErrorIs(t, err, model.ErrInvalidRole)
}

func TestParseAppointmentType(t *testing.T) {
	tp, err := parseAppointmentType("Повторный")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentTypeRepeat, tp)

	tp, err = parseAppointmentType("primary")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentTypePrimary, tp)

	_, err = parseAppointmentType("urgent")
	assert.ErrorIs(t, err, model.ErrInvalidAppointment)
}

func TestParseDayOffArg(t *testing.T) {
	cases := map[string]model.DayOff{
		"Сб":          model.WeekdayOff(model.Saturday),
		"воскресенье": model.WeekdayOff(model.Sunday),
		"weekday:0":   model.WeekdayOff(model.Monday),
		"2025-06-12":  model.DayOff("2025-06-12"),
	}
	for in, want := range cases {
		got, err := parseDayOffArg(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"funday", "weekday:7", "12.06.2025"} {
		_, err := parseDayOffArg(in)
		assert.ErrorIs(t, err, model.ErrInvalidDate, in)
	}
}

func TestSplitProfile(t *testing.T) {
	address, specialty := splitProfile([]string{"ул.", "Ленина,", "5;", "терапевт"})
	assert.Equal(t, "ул. Ленина, 5", address)
	assert.Equal(t, "терапевт", specialty)

	address, specialty = splitProfile([]string{"каб.", "12"})
	assert.Equal(t, "каб. 12", address)
	assert.Empty(t, specialty)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("abc")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = parseID("-1")
	assert.Error(t, err)
}

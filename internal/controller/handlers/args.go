package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VaInBlAt/appointment-bot/internal/model"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", model.ErrNotFound, s)
	}
	return id, nil
}

var roleAliases = map[string]model.Role{
	"doctor":  model.RoleDoctor,
	"врач":    model.RoleDoctor,
	"patient": model.RolePatient,
	"пациент": model.RolePatient,
}

func parseRole(s string) (model.Role, error) {
	role, ok := roleAliases[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidRole, s)
	}
	return role, nil
}

var typeAliases = map[string]model.AppointmentType{
	"первичный": model.AppointmentTypePrimary,
	"повторный": model.AppointmentTypeRepeat,
}

func parseAppointmentType(s string) (model.AppointmentType, error) {
	s = strings.ToLower(s)
	if t, ok := typeAliases[s]; ok {
		return t, nil
	}
	return model.ParseAppointmentType(s)
}

var weekdayAliases = map[string]model.Weekday{
	"пн": model.Monday, "понедельник": model.Monday, "mon": model.Monday,
	"вт": model.Tuesday, "вторник": model.Tuesday, "tue": model.Tuesday,
	"ср": model.Wednesday, "среда": model.Wednesday, "wed": model.Wednesday,
	"чт": model.Thursday, "четверг": model.Thursday, "thu": model.Thursday,
	"пт": model.Friday, "пятница": model.Friday, "fri": model.Friday,
	"сб": model.Saturday, "суббота": model.Saturday, "sat": model.Saturday,
	"вс": model.Sunday, "воскресенье": model.Sunday, "sun": model.Sunday,
}

// parseDayOffArg понимает дату ГГГГ-ММ-ДД, название дня недели и weekday:N
func parseDayOffArg(s string) (model.DayOff, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if w, ok := weekdayAliases[s]; ok {
		return model.WeekdayOff(w), nil
	}
	return model.ParseDayOff(s)
}

// splitProfile делит "адрес; специальность" по первой точке с запятой
func splitProfile(args []string) (address, specialty string) {
	joined := strings.Join(args, " ")
	address, specialty, _ = strings.Cut(joined, ";")
	return strings.TrimSpace(address), strings.TrimSpace(specialty)
}

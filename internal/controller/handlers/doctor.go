package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/render"
)

func (h *Handlers) schedule(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) == 0 {
		return h.showSchedule(ctx, userID)
	}
	if len(args) != 3 {
		return Reply{}, usage(h.commands["schedule"].usage)
	}
	if _, err := h.userService.RequireDoctor(ctx, userID); err != nil {
		return Reply{}, err
	}

	duration, err := strconv.Atoi(args[0])
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %q", model.ErrInvalidSlotDuration, args[0])
	}
	primary, err := model.ParsePeriodRange(args[1])
	if err != nil {
		return Reply{}, err
	}
	repeat, err := model.ParsePeriodRange(args[2])
	if err != nil {
		return Reply{}, err
	}

	saved, err := h.scheduleService.SetSchedule(ctx, userID, duration, primary, repeat)
	if err != nil {
		return Reply{}, err
	}
	return sayf("✅ Расписание сохранено\n\n%s", formatSchedule(saved)), nil
}

func (h *Handlers) showSchedule(ctx context.Context, userID int64) (Reply, error) {
	if _, err := h.userService.RequireDoctor(ctx, userID); err != nil {
		return Reply{}, err
	}
	current, err := h.scheduleService.GetSchedule(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if current == nil {
		return sayf("🗓 Расписание не настроено\n\n%s\nНапример: /schedule 30 09:00-13:00 14:00-17:00", h.commands["schedule"].usage), nil
	}
	return sayf("🗓 Текущее расписание\n\n%s\n\nИзменить: %s", formatSchedule(current), h.commands["schedule"].usage), nil
}

func formatSchedule(s *model.DoctorSchedule) string {
	return fmt.Sprintf("⏱ Приём: %d мин\n🩺 Первичный: %s\n🔁 Повторный: %s", s.SlotDuration, s.Primary, s.Repeat)
}

// doctorAppointments записи к врачу постранично, опционально за одну дату
func (h *Handlers) doctorAppointments(ctx context.Context, userID int64, args []string) (Reply, error) {
	if _, err := h.userService.RequireDoctor(ctx, userID); err != nil {
		return Reply{}, err
	}

	page := 1
	var date *string
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			page = n
			continue
		}
		day, err := model.ParseDate(arg, nil)
		if err != nil {
			return Reply{}, usage(h.commands["appointments"].usage)
		}
		d := model.FormatDate(day)
		date = &d
	}

	list, err := h.appointmentService.ListForDoctor(ctx, userID, date)
	if err != nil {
		return Reply{}, err
	}
	if len(list) == 0 {
		return say("📭 Записей нет"), nil
	}

	p := Paginate(list, page, pageSize)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Записи (%d), страница %d/%d:\n", p.Total, p.Page, p.TotalPages)
	for _, a := range p.Items {
		sb.WriteString("\n")
		sb.WriteString(formatAppointment(a, true))
		if a.Status == model.AppointmentStatusPending {
			fmt.Fprintf(&sb, "\nПодтвердить: /confirm %s", a.ID)
		}
		sb.WriteString("\n")
	}

	suffix := ""
	if date != nil {
		suffix = " " + *date
	}
	if p.HasPrev {
		fmt.Fprintf(&sb, "\n⬅️ /appointments %d%s", p.Page-1, suffix)
	}
	if p.HasNext {
		fmt.Fprintf(&sb, "\n➡️ /appointments %d%s", p.Page+1, suffix)
	}
	return say(sb.String()), nil
}

func (h *Handlers) confirm(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, usage(h.commands["confirm"].usage)
	}
	if _, err := h.userService.RequireDoctor(ctx, userID); err != nil {
		return Reply{}, err
	}

	appointment, err := h.appointmentService.Confirm(ctx, args[0], userID)
	if err != nil {
		return Reply{}, err
	}
	return sayf("✅ Запись подтверждена\n\n%s", formatAppointment(appointment, true)), nil
}

func (h *Handlers) dayOffStart(ctx context.Context, userID int64, _ []string) (Reply, error) {
	session, err := h.dayOffService.Begin(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	h.stateManager.StartDayOffs(userID, session)

	return sayf("🌴 Выходные: %s\n\n"+
		"Переключить день: /toggle 2025-06-12 или /toggle сб\n"+
		"Сохранить: /dayoff_save\n"+
		"Выйти без сохранения: /cancel\n\n"+
		"⚠️ Записи на новые выходные будут отменены, пациенты получат уведомление.",
		formatDayOffs(session.Items())), nil
}

func (h *Handlers) dayOffToggle(_ context.Context, userID int64, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, usage(h.commands["toggle"].usage)
	}
	session, ok := h.stateManager.DayOffs(userID)
	if !ok {
		return Reply{}, errNoSession
	}

	day, err := parseDayOffArg(args[0])
	if err != nil {
		return Reply{}, err
	}
	on, err := h.dayOffService.Toggle(session, day)
	if err != nil {
		return Reply{}, err
	}

	action := "🟢 рабочий"
	if on {
		action = "🔴 выходной"
	}
	return sayf("%s: %s\n\nВыходные: %s", formatDayOff(day), action, formatDayOffs(session.Items())), nil
}

func (h *Handlers) dayOffSave(ctx context.Context, userID int64, _ []string) (Reply, error) {
	session, ok := h.stateManager.DayOffs(userID)
	if !ok {
		return Reply{}, errNoSession
	}

	result, err := h.dayOffService.Commit(ctx, session)
	if err != nil {
		return Reply{}, err
	}
	h.stateManager.ClearState(userID)

	if len(result.Added) == 0 && len(result.Removed) == 0 {
		return say("ℹ️ Изменений нет"), nil
	}

	var sb strings.Builder
	sb.WriteString("✅ Выходные сохранены\n")
	if len(result.Added) > 0 {
		fmt.Fprintf(&sb, "\n🔴 Добавлены: %s", formatDayOffs(result.Added))
	}
	if len(result.Removed) > 0 {
		fmt.Fprintf(&sb, "\n🟢 Убраны: %s", formatDayOffs(result.Removed))
	}
	if len(result.Cancelled) > 0 {
		fmt.Fprintf(&sb, "\n\n❌ Отменено записей: %d", len(result.Cancelled))
		for _, a := range result.Cancelled {
			fmt.Fprintf(&sb, "\n• %s %s, %s", formatDate(a.Date), a.TimeSlot, model.ShortName(a.PatientFIO))
		}
	}
	return say(sb.String()), nil
}

// week картинка недели приёма, по умолчанию с сегодняшнего дня
func (h *Handlers) week(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) > 1 {
		return Reply{}, usage(h.commands["week"].usage)
	}
	if _, err := h.userService.RequireDoctor(ctx, userID); err != nil {
		return Reply{}, err
	}

	from := h.availabilityService.Today()
	if len(args) == 1 {
		day, err := h.availabilityService.ParseFutureDate(args[0])
		if err != nil {
			return Reply{}, err
		}
		from = day
	}

	plans, err := h.availabilityService.WeekPlan(ctx, userID, from)
	if err != nil {
		return Reply{}, err
	}

	image, err := render.WeekImage(plans, h.now())
	if err != nil {
		return Reply{}, err
	}

	free, booked := 0, 0
	for _, p := range plans {
		for _, s := range p.Slots {
			if s.Booked {
				booked++
			} else {
				free++
			}
		}
	}
	return Reply{
		Text:  fmt.Sprintf("🖼 Неделя с %s: свободно %d, занято %d", formatDate(model.FormatDate(from)), free, booked),
		Photo: image,
	}, nil
}

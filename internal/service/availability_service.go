package service

import (
	"context"
	"fmt"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/slots"
	"go.uber.org/zap"
)

// maxWorkingDayScan сколько дней просматривать в поиске рабочего дня
const maxWorkingDayScan = 365

// SlotState слот дня и признак занятости
type SlotState struct {
	Slot   string
	Type   model.AppointmentType
	Booked bool
}

// DayPlan сводка дня врача
type DayPlan struct {
	Date  time.Time
	Off   bool
	Slots []SlotState
}

type AvailabilityService struct {
	schedules    ScheduleRepository
	appointments AppointmentRepository
	users        UserRepository
	now          func() time.Time
	logger       *zap.Logger
}

func NewAvailabilityService(
	schedules ScheduleRepository,
	appointments AppointmentRepository,
	users UserRepository,
	now func() time.Time,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		schedules:    schedules,
		appointments: appointments,
		users:        users,
		now:          now,
		logger:       logger,
	}
}

// Today текущая дата в часовом поясе клиники
func (s *AvailabilityService) Today() time.Time {
	return model.DayOf(s.now())
}

// ParseFutureDate разбирает дату и отклоняет прошедшие
func (s *AvailabilityService) ParseFutureDate(date string) (time.Time, error) {
	day, err := model.ParseDate(date, s.now().Location())
	if err != nil {
		return time.Time{}, err
	}
	if day.Before(s.Today()) {
		return time.Time{}, fmt.Errorf("%w: %s", model.ErrPastDateSelected, date)
	}
	return day, nil
}

// DayOffs выходные врача. У незарегистрированного врача выходных нет.
func (s *AvailabilityService) DayOffs(ctx context.Context, doctorID int64) (model.DayOffSet, error) {
	user, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if user == nil {
		return model.NewDayOffSet(), nil
	}
	return user.DayOffs(), nil
}

// AvailableSlots свободные слоты врача на дату для типа приёма, в порядке генерации.
// В выходной день возвращается пустой список.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID int64, date string, t model.AppointmentType) ([]string, error) {
	day, err := s.ParseFutureDate(date)
	if err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidAppointment, t)
	}

	schedule, err := s.schedules.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, model.ErrNoScheduleConfigured
	}

	dayOffs, err := s.DayOffs(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if dayOffs.IsOff(day) {
		return []string{}, nil
	}

	booked, err := s.bookedSlots(ctx, doctorID, model.FormatDate(day))
	if err != nil {
		return nil, err
	}

	return slots.Subtract(slots.Strings(slots.ForType(schedule, t)), booked), nil
}

func (s *AvailabilityService) bookedSlots(ctx context.Context, doctorID int64, date string) (map[string]struct{}, error) {
	appointments, err := s.appointments.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("get booked slots: %w", err)
	}

	booked := make(map[string]struct{}, len(appointments))
	for _, a := range appointments {
		if a.Active() {
			booked[a.TimeSlot] = struct{}{}
		}
	}
	return booked, nil
}

// IsBooked занят ли слот неотменённой записью
func (s *AvailabilityService) IsBooked(ctx context.Context, doctorID int64, date, slot string) (bool, error) {
	booked, err := s.bookedSlots(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	_, ok := booked[slot]
	return ok, nil
}

// NextWorkingDate ближайший рабочий день врача после from.
// ok == false означает, что листать дальше некуда.
func (s *AvailabilityService) NextWorkingDate(ctx context.Context, doctorID int64, from string) (string, bool, error) {
	return s.workingDate(ctx, doctorID, from, NextWorkingDay)
}

// PreviousWorkingDate ближайший рабочий день врача до from, не раньше сегодняшнего
func (s *AvailabilityService) PreviousWorkingDate(ctx context.Context, doctorID int64, from string) (string, bool, error) {
	return s.workingDate(ctx, doctorID, from, PreviousWorkingDay)
}

func (s *AvailabilityService) workingDate(
	ctx context.Context,
	doctorID int64,
	from string,
	step func(time.Time, model.DayOffSet) (time.Time, bool),
) (string, bool, error) {
	day, err := model.ParseDate(from, s.now().Location())
	if err != nil {
		return "", false, err
	}
	dayOffs, err := s.DayOffs(ctx, doctorID)
	if err != nil {
		return "", false, err
	}

	found, ok := step(day, dayOffs)
	if !ok || found.Before(s.Today()) {
		return "", false, nil
	}
	return model.FormatDate(found), true, nil
}

// WeekPlan сводка по слотам врача на 7 дней начиная с from
func (s *AvailabilityService) WeekPlan(ctx context.Context, doctorID int64, from time.Time) ([]DayPlan, error) {
	schedule, err := s.schedules.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, model.ErrNoScheduleConfigured
	}

	dayOffs, err := s.DayOffs(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	primary := slots.Strings(slots.ForType(schedule, model.AppointmentTypePrimary))
	repeat := slots.Strings(slots.ForType(schedule, model.AppointmentTypeRepeat))

	start := model.DayOf(from)
	plan := make([]DayPlan, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		dp := DayPlan{Date: day, Off: dayOffs.IsOff(day)}

		if !dp.Off {
			booked, err := s.bookedSlots(ctx, doctorID, model.FormatDate(day))
			if err != nil {
				return nil, err
			}
			for _, slot := range primary {
				_, taken := booked[slot]
				dp.Slots = append(dp.Slots, SlotState{Slot: slot, Type: model.AppointmentTypePrimary, Booked: taken})
			}
			for _, slot := range repeat {
				_, taken := booked[slot]
				dp.Slots = append(dp.Slots, SlotState{Slot: slot, Type: model.AppointmentTypeRepeat, Booked: taken})
			}
		}
		plan = append(plan, dp)
	}
	return plan, nil
}

// NextWorkingDay ищет следующий день после from, не попадающий в выходные
func NextWorkingDay(from time.Time, dayOffs model.DayOffSet) (time.Time, bool) {
	return scanWorkingDay(from, dayOffs, 1)
}

// PreviousWorkingDay ищет предыдущий день до from, не попадающий в выходные
func PreviousWorkingDay(from time.Time, dayOffs model.DayOffSet) (time.Time, bool) {
	return scanWorkingDay(from, dayOffs, -1)
}

func scanWorkingDay(from time.Time, dayOffs model.DayOffSet, step int) (time.Time, bool) {
	day := model.DayOf(from)
	for i := 0; i < maxWorkingDayScan; i++ {
		day = day.AddDate(0, 0, step)
		if !dayOffs.IsOff(day) {
			return day, true
		}
	}
	return time.Time{}, false
}

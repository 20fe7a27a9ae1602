package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultNotifyConcurrency сколько уведомлений отправлять одновременно
const defaultNotifyConcurrency = 4

// DayOffSession рабочая копия выходных врача. Принадлежит диалогу врача,
// в хранилище попадает только через DayOffService.Commit.
// Команды одного врача обрабатываются параллельно, поэтому копия под мьютексом.
type DayOffSession struct {
	DoctorID  int64
	StartedAt time.Time

	mu      sync.Mutex
	base    model.DayOffSet
	working model.DayOffSet
}

// IsOff выходной ли день t в рабочей копии
func (s *DayOffSession) IsOff(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.IsOff(t)
}

func (s *DayOffSession) Has(d model.DayOff) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Has(d)
}

// Items выходные в рабочей копии
func (s *DayOffSession) Items() []model.DayOff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Items()
}

// Changes добавленные и убранные выходные относительно момента начала сессии
func (s *DayOffSession) Changes() (added, removed []model.DayOff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Diff(s.base)
}

func (s *DayOffSession) set(d model.DayOff, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.working[d] = struct{}{}
	} else {
		delete(s.working, d)
	}
}

func (s *DayOffSession) toggle(d model.DayOff) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, on := s.working[d]
	if on {
		delete(s.working, d)
	} else {
		s.working[d] = struct{}{}
	}
	return !on
}

func (s *DayOffSession) Dirty() bool {
	added, removed := s.Changes()
	return len(added) > 0 || len(removed) > 0
}

// DayOffResult итог применения изменений
type DayOffResult struct {
	Added     []model.DayOff
	Removed   []model.DayOff
	Cancelled []*model.Appointment
}

type DayOffService struct {
	users             UserRepository
	appointments      *AppointmentService
	notifier          Notifier
	locks             *DoctorLocks
	now               func() time.Time
	notifyConcurrency int
	logger            *zap.Logger
}

func NewDayOffService(
	users UserRepository,
	appointments *AppointmentService,
	notifier Notifier,
	locks *DoctorLocks,
	now func() time.Time,
	logger *zap.Logger,
) *DayOffService {
	return &DayOffService{
		users:             users,
		appointments:      appointments,
		notifier:          notifier,
		locks:             locks,
		now:               now,
		notifyConcurrency: defaultNotifyConcurrency,
		logger:            logger,
	}
}

func (s *DayOffService) requireDoctor(ctx context.Context, doctorID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if user == nil {
		return nil, model.ErrNotFound
	}
	if !user.IsDoctor() {
		return nil, model.ErrNotDoctor
	}
	return user, nil
}

// Get текущие выходные врача
func (s *DayOffService) Get(ctx context.Context, doctorID int64) (model.DayOffSet, error) {
	user, err := s.requireDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return user.DayOffs().Clone(), nil
}

// Begin открывает сессию редактирования выходных
func (s *DayOffService) Begin(ctx context.Context, doctorID int64) (*DayOffSession, error) {
	current, err := s.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return &DayOffSession{
		DoctorID:  doctorID,
		StartedAt: s.now(),
		base:      current,
		working:   current.Clone(),
	}, nil
}

// Set отмечает день в сессии выходным (on) или рабочим.
// Прошедшие даты менять нельзя.
func (s *DayOffService) Set(session *DayOffSession, day model.DayOff, on bool) error {
	if err := s.checkDay(day); err != nil {
		return err
	}
	session.set(day, on)
	return nil
}

// Toggle переключает день в сессии и возвращает новое состояние (true - выходной)
func (s *DayOffService) Toggle(session *DayOffSession, day model.DayOff) (bool, error) {
	if err := s.checkDay(day); err != nil {
		return false, err
	}
	return session.toggle(day), nil
}

func (s *DayOffService) checkDay(day model.DayOff) error {
	if _, err := model.ParseDayOff(string(day)); err != nil {
		return err
	}
	if date, ok := day.Date(); ok {
		t, err := model.ParseDate(date, s.now().Location())
		if err != nil {
			return err
		}
		if t.Before(model.DayOf(s.now())) {
			return fmt.Errorf("%w: %s", model.ErrPastDateSelected, date)
		}
	}
	return nil
}

// SetDayOff меняет один день сразу, без сессии
func (s *DayOffService) SetDayOff(ctx context.Context, doctorID int64, day model.DayOff, on bool) (*DayOffResult, error) {
	session, err := s.Begin(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.Set(session, day, on); err != nil {
		return nil, err
	}
	return s.Commit(ctx, session)
}

// Commit применяет изменения сессии. Пациентам с записями на новые выходные
// отправляются уведомления, записи удаляются, затем сохраняется набор выходных.
// Уведомления доставляются параллельно и без блокировки врача: Commit ждёт их
// только после того, как блокировка снята.
func (s *DayOffService) Commit(ctx context.Context, session *DayOffSession) (*DayOffResult, error) {
	added, removed := session.Changes()
	result := &DayOffResult{Added: added, Removed: removed}
	if len(added) == 0 && len(removed) == 0 {
		return result, nil
	}

	cancelled, sent, err := s.apply(ctx, session.DoctorID, added, removed)
	if sent != nil {
		<-sent
	}
	if err != nil {
		return nil, err
	}
	result.Cancelled = cancelled

	s.logger.Info("Day-offs updated",
		zap.Int64("doctor_id", session.DoctorID),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)),
		zap.Int("cancelled", len(cancelled)),
	)

	return result, nil
}

// apply выполняет каскад под блокировкой врача. Канал sent закрывается,
// когда все уведомления отправлены.
func (s *DayOffService) apply(
	ctx context.Context,
	doctorID int64,
	added, removed []model.DayOff,
) (affected []*model.Appointment, sent <-chan struct{}, err error) {
	unlock := s.locks.Lock(doctorID)
	defer unlock()

	user, err := s.requireDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, err
	}

	// изменения накладываются на свежие данные, а не на снимок начала сессии
	current := user.DayOffs().Clone()
	for _, d := range removed {
		delete(current, d)
	}
	for _, d := range added {
		current[d] = struct{}{}
	}

	affected, err = s.affected(ctx, doctorID, added)
	if err != nil {
		return nil, nil, err
	}

	if len(affected) > 0 {
		done := make(chan struct{})
		go func(list []*model.Appointment) {
			defer close(done)
			s.notifyAll(ctx, list)
		}(affected)
		sent = done

		ids := make([]string, len(affected))
		for i, a := range affected {
			ids[i] = a.ID
		}
		if _, err := s.appointments.DeleteCascade(ctx, ids); err != nil {
			return nil, sent, err
		}
	}

	if err := s.users.UpdateWeekends(ctx, doctorID, current); err != nil {
		return nil, sent, fmt.Errorf("save day-offs: %w", err)
	}
	return affected, sent, nil
}

// affected неотменённые записи врача с сегодняшнего дня, попадающие на новые выходные
func (s *DayOffService) affected(ctx context.Context, doctorID int64, added []model.DayOff) ([]*model.Appointment, error) {
	if len(added) == 0 {
		return nil, nil
	}

	all, err := s.appointments.ListForDoctor(ctx, doctorID, nil)
	if err != nil {
		return nil, err
	}

	today := model.DayOf(s.now())
	var affected []*model.Appointment
	for _, a := range all {
		if !a.Active() {
			continue
		}
		day, err := model.ParseDate(a.Date, today.Location())
		if err != nil || day.Before(today) {
			continue
		}
		for _, d := range added {
			if d.Covers(day) {
				affected = append(affected, a)
				break
			}
		}
	}
	return affected, nil
}

// notifyAll уведомляет пациентов об отмене. Ошибки только логируются.
func (s *DayOffService) notifyAll(ctx context.Context, affected []*model.Appointment) {
	var g errgroup.Group
	g.SetLimit(s.notifyConcurrency)

	for _, a := range affected {
		a := a
		g.Go(func() error {
			if err := s.notifier.Notify(ctx, a.PatientID, a.Date, ReasonDayOff); err != nil {
				s.logger.Warn("Failed to notify patient",
					zap.String("appointment_id", a.ID),
					zap.Int64("patient_id", a.PatientID),
					zap.String("date", a.Date),
					zap.Error(err))
			}
			return nil
		})
	}

	_ = g.Wait()
}

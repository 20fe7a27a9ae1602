package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/repository/jsonrepo"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// понедельник
var testNow = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)

const (
	doctorID  int64 = 1
	patientID int64 = 100
)

type notification struct {
	PatientID int64
	Date      string
	Reason    NotifyReason
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notification
	err   error
	// onNotify вызывается до записи уведомления
	onNotify func(patientID int64)
}

func (n *fakeNotifier) Notify(ctx context.Context, patientID int64, date string, reason NotifyReason) error {
	if n.onNotify != nil {
		n.onNotify(patientID)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{PatientID: patientID, Date: date, Reason: reason})
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type fixture struct {
	users        *jsonrepo.UserRepository
	appointRepo  *jsonrepo.AppointmentRepository
	userSvc      *UserService
	schedules    *ScheduleService
	availability *AvailabilityService
	appointments *AppointmentService
	dayOffs      *DayOffService
	notifier     *fakeNotifier
	locks        *DoctorLocks
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	now := func() time.Time { return testNow }
	logger := zap.NewNop()

	users := jsonrepo.NewUserRepository(store)
	scheduleRepo := jsonrepo.NewScheduleRepository(store)
	appointRepo := jsonrepo.NewAppointmentRepository(store)

	locks := NewDoctorLocks()
	notifier := &fakeNotifier{}
	availability := NewAvailabilityService(scheduleRepo, appointRepo, users, now, logger)
	appointments := NewAppointmentService(appointRepo, availability, locks, now, logger)

	return &fixture{
		users:        users,
		appointRepo:  appointRepo,
		userSvc:      NewUserService(users, now, logger),
		schedules:    NewScheduleService(scheduleRepo, logger),
		availability: availability,
		appointments: appointments,
		dayOffs:      NewDayOffService(users, appointments, notifier, locks, now, logger),
		notifier:     notifier,
		locks:        locks,
	}
}

// withDoctor регистрирует врача с расписанием 30 минут, 09:00-11:00 и 14:00-15:00
func (f *fixture) withDoctor(t *testing.T, id int64) {
	t.Helper()
	ctx := context.Background()

	_, err := f.userSvc.Register(ctx, id, model.RoleDoctor, "Сидорова Анна Ивановна")
	require.NoError(t, err)

	primary, err := model.ParsePeriod("09:00", "11:00")
	require.NoError(t, err)
	repeat, err := model.ParsePeriod("14:00", "15:00")
	require.NoError(t, err)
	_, err = f.schedules.SetSchedule(ctx, id, 30, primary, repeat)
	require.NoError(t, err)
}

func patient(id int64) PatientInfo {
	return PatientInfo{ID: id, FIO: "Петров Пётр Петрович", BirthDate: "01.01.1990", Phone: "+79990000000"}
}

func (f *fixture) book(t *testing.T, patientID int64, date, slot string) *model.Appointment {
	t.Helper()
	a, err := f.appointments.Book(context.Background(), BookRequest{
		DoctorID: doctorID,
		Date:     date,
		TimeSlot: slot,
		Type:     model.AppointmentTypePrimary,
		Patient:  patient(patientID),
	})
	require.NoError(t, err)
	return a
}

var errDelivery = errors.New("telegram is down")

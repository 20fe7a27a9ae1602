package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/app"
	"github.com/VaInBlAt/appointment-bot/internal/controller/state"
	"github.com/VaInBlAt/appointment-bot/internal/repository/jsonrepo"
	"github.com/VaInBlAt/appointment-bot/internal/service"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// понедельник
var testNow = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)

const (
	doctorID  int64 = 1
	patientID int64 = 2
)

type recordingNotifier struct {
	mu       sync.Mutex
	patients []int64
}

func (n *recordingNotifier) Notify(_ context.Context, patientID int64, _ string, _ service.NotifyReason) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.patients = append(n.patients, patientID)
	return nil
}

type harness struct {
	t        *testing.T
	h        *Handlers
	services *app.Services
	notifier *recordingNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	now := func() time.Time { return testNow }
	notifier := &recordingNotifier{}
	services := app.NewServices(
		jsonrepo.NewUserRepository(store),
		jsonrepo.NewScheduleRepository(store),
		jsonrepo.NewAppointmentRepository(store),
		notifier,
		now,
		zap.NewNop(),
	)

	h := NewHandlers(
		services.Users,
		services.Schedules,
		services.Availability,
		services.Appointments,
		services.DayOffs,
		state.NewManager(now),
		now,
		zap.NewNop(),
	)
	return &harness{t: t, h: h, services: services, notifier: notifier}
}

func (hs *harness) run(userID int64, message string) string {
	hs.t.Helper()
	return hs.h.Execute(context.Background(), userID, message).Text
}

// setup регистрирует врача с расписанием и пациента с контактами
func (hs *harness) setup() {
	hs.t.Helper()
	require.Contains(hs.t, hs.run(doctorID, "/register doctor Иванова Анна Сергеевна"), "врач")
	require.Contains(hs.t, hs.run(doctorID, "/schedule 30 09:00-10:00 14:00-15:00"), "Расписание сохранено")
	require.Contains(hs.t, hs.run(patientID, "/register пациент Петров Пётр Петрович"), "пациент")
	require.Contains(hs.t, hs.run(patientID, "/contacts 01.02.1990 +7 999 123-45-67"), "+79991234567")
}

func TestRegistrationAndProfile(t *testing.T) {
	hs := newHarness(t)

	assert.Contains(t, hs.run(doctorID, "/start"), "/register")
	assert.Contains(t, hs.run(doctorID, "/register doctor Иванова Анна Сергеевна"), "/doctor")
	assert.Contains(t, hs.run(doctorID, "/start"), "Иванова А.С.")

	out := hs.run(doctorID, "/doctor ул. Ленина, 5; терапевт")
	assert.Contains(t, out, "ул. Ленина, 5")
	assert.Contains(t, out, "терапевт")

	assert.Contains(t, hs.run(3, "/find ТЕРАП"), "(id 1)")
	assert.Contains(t, hs.run(3, "/find хирург"), "не найдены")

	assert.Contains(t, hs.run(patientID, "/register admin Кто-то"), "Роль")
	assert.Contains(t, hs.run(patientID, "/contacts 01.02.1990 +7999"), "/register")
	hs.run(patientID, "/register patient Петров Пётр Петрович")
	assert.Contains(t, hs.run(patientID, "/contacts 1990-02-01 +79991234567"), "Дата рождения")
	assert.Contains(t, hs.run(patientID, "/doctor каб. 3"), "только врачам")
}

func TestBookingFlow(t *testing.T) {
	hs := newHarness(t)
	require.Contains(t, hs.run(doctorID, "/register doctor Иванова Анна Сергеевна"), "врач")
	require.Contains(t, hs.run(doctorID, "/schedule 30 09:00-10:00 14:00-15:00"), "Расписание сохранено")
	require.Contains(t, hs.run(patientID, "/register patient Петров Пётр Петрович"), "пациент")

	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-10 09:00-09:30 primary"), "/contacts")
	hs.run(patientID, "/contacts 01.02.1990 89991234567")

	slots := hs.run(patientID, "/slots 1 2025-06-10")
	assert.Contains(t, slots, "09:00-09:30")
	assert.Contains(t, slots, "09:30-10:00")
	assert.NotContains(t, slots, "14:00-14:30")
	assert.Contains(t, hs.run(patientID, "/slots 1 2025-06-10 repeat"), "14:00-14:30")

	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-10 09:00-09:30 primary"), "Вы записаны")
	assert.NotContains(t, hs.run(patientID, "/slots 1 2025-06-10"), "09:00-09:30")
	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-10 09:00-09:30 primary"), "уже занято")
	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-10 09:10-09:40 primary"), "нет в расписании")
	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-01 09:00-09:30 primary"), "прошедшую")
	assert.Contains(t, hs.run(patientID, "/book 1 2025-06-10"), "Формат")

	my := hs.run(patientID, "/my")
	assert.Contains(t, my, "10.06.2025 (вторник) 09:00-09:30")
	assert.Contains(t, my, "Ожидает подтверждения")

	list, err := hs.services.Appointments.ListForPatient(context.Background(), patientID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	doctorView := hs.run(doctorID, "/appointments")
	assert.Contains(t, doctorView, "Петров Пётр Петрович")
	assert.Contains(t, doctorView, "/confirm "+id)

	assert.Contains(t, hs.run(patientID, "/confirm "+id), "только врачам")
	assert.Contains(t, hs.run(doctorID, "/confirm "+id), "подтверждена")
	assert.Contains(t, hs.run(doctorID, "/appointments 2025-06-10"), "Подтверждена")
	assert.Contains(t, hs.run(doctorID, "/appointments 2025-06-11"), "Записей нет")

	assert.Contains(t, hs.run(3, "/cancel_appointment "+id), "Нет доступа")
	assert.Contains(t, hs.run(patientID, "/cancel_appointment "+id), "Запись отменена")
	assert.Contains(t, hs.run(patientID, "/my"), "нет записей")
}

func TestDayOffSession(t *testing.T) {
	hs := newHarness(t)
	hs.setup()
	require.Contains(t, hs.run(patientID, "/book 1 2025-06-10 09:00-09:30 primary"), "Вы записаны")

	assert.Contains(t, hs.run(doctorID, "/toggle вт"), "/dayoff")
	assert.Contains(t, hs.run(doctorID, "/dayoff"), "Выходные: нет")
	assert.Contains(t, hs.run(doctorID, "/toggle вт"), "выходной")
	assert.Contains(t, hs.run(doctorID, "/toggle 2025-06-01"), "прошедшую")
	assert.Contains(t, hs.run(doctorID, "/toggle funday"), "Неверная дата")

	// до сохранения запись на месте
	assert.Len(t, hs.notifier.patients, 0)

	saved := hs.run(doctorID, "/dayoff_save")
	assert.Contains(t, saved, "каждый вторник")
	assert.Contains(t, saved, "Отменено записей: 1")
	assert.Equal(t, []int64{patientID}, hs.notifier.patients)

	assert.Contains(t, hs.run(patientID, "/my"), "нет записей")
	free := hs.run(patientID, "/slots 1 2025-06-10")
	assert.Contains(t, free, "свободных слотов нет")
	assert.Contains(t, free, "/slots 1 2025-06-11 primary")

	assert.Contains(t, hs.run(doctorID, "/dayoff_save"), "/dayoff")
}

func TestDayOffCancel(t *testing.T) {
	hs := newHarness(t)
	hs.setup()

	hs.run(doctorID, "/dayoff")
	hs.run(doctorID, "/toggle ср")
	assert.Contains(t, hs.run(doctorID, "/cancel"), "Операция отменена")
	assert.Contains(t, hs.run(doctorID, "/cancel"), "Нет активных операций")

	dayOffs, err := hs.services.DayOffs.Get(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Empty(t, dayOffs)
}

func TestWeekImage(t *testing.T) {
	hs := newHarness(t)
	hs.setup()

	reply := hs.h.Execute(context.Background(), doctorID, "/week")
	assert.NotEmpty(t, reply.Photo)
	assert.Contains(t, reply.Text, "свободно 28, занято 0")

	reply = hs.h.Execute(context.Background(), patientID, "/week")
	assert.Empty(t, reply.Photo)
	assert.Contains(t, reply.Text, "только врачам")
}

func TestScheduleCommand(t *testing.T) {
	hs := newHarness(t)
	hs.run(doctorID, "/register doctor Иванова Анна Сергеевна")

	empty := hs.run(doctorID, "/schedule")
	assert.Contains(t, empty, "не настроено\n\n")
	assert.Contains(t, empty, "\nНапример: /schedule 30 09:00-13:00 14:00-17:00")
	assert.Contains(t, hs.run(doctorID, "/schedule 3 09:00-10:00 14:00-15:00"), "от 5 до 180")
	assert.Contains(t, hs.run(doctorID, "/schedule 30 10:00-09:00 14:00-15:00"), "позже начала")
	assert.Contains(t, hs.run(doctorID, "/schedule 30 9-10 14:00-15:00"), "ЧЧ:ММ")
	assert.Contains(t, hs.run(doctorID, "/slots 1 2025-06-10"), "не настроил")

	hs.run(doctorID, "/schedule 20 09:00-10:00 14:00-15:00")
	assert.Contains(t, hs.run(doctorID, "/schedule"), "Приём: 20 мин")
}

func TestUnknownCommandAndHelp(t *testing.T) {
	hs := newHarness(t)

	assert.Contains(t, hs.run(doctorID, "/nope"), "Неизвестная команда")
	help := hs.run(doctorID, "/help")
	for _, name := range commandOrder {
		assert.Contains(t, help, "/"+name)
	}
	assert.Len(t, hs.h.Commands(), len(commandOrder))
}

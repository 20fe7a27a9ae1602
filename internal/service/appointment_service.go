package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientInfo данные пациента, копируемые в запись
type PatientInfo struct {
	ID        int64
	FIO       string
	BirthDate string
	Phone     string
}

// PatientFromUser берёт данные пациента из анкеты
func PatientFromUser(u *model.User) PatientInfo {
	return PatientInfo{
		ID:        u.ID,
		FIO:       u.Registration.FIO,
		BirthDate: u.Registration.BirthDate,
		Phone:     u.Registration.Phone,
	}
}

type BookRequest struct {
	DoctorID int64
	Date     string
	TimeSlot string
	Type     model.AppointmentType
	Patient  PatientInfo
}

type AppointmentService struct {
	repo         AppointmentRepository
	availability *AvailabilityService
	locks        *DoctorLocks
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
}

func NewAppointmentService(
	repo AppointmentRepository,
	availability *AvailabilityService,
	locks *DoctorLocks,
	now func() time.Time,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:         repo,
		availability: availability,
		locks:        locks,
		now:          now,
		newID:        uuid.NewString,
		logger:       logger,
	}
}

// Book записывает пациента на слот. Записи к одному врачу выполняются по очереди,
// а уникальность слота дополнительно проверяет репозиторий в момент сохранения.
func (s *AppointmentService) Book(ctx context.Context, req BookRequest) (*model.Appointment, error) {
	p := req.Patient
	if p.FIO == "" || p.BirthDate == "" || p.Phone == "" {
		return nil, model.ErrProfileIncomplete
	}

	slot, err := model.ParseSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidAppointment, req.Type)
	}

	unlock := s.locks.Lock(req.DoctorID)
	defer unlock()

	free, err := s.availability.AvailableSlots(ctx, req.DoctorID, req.Date, req.Type)
	if err != nil {
		return nil, err
	}
	day, err := model.ParseDate(req.Date, nil)
	if err != nil {
		return nil, err
	}
	date := model.FormatDate(day)

	if !contains(free, slot.String()) {
		booked, err := s.availability.IsBooked(ctx, req.DoctorID, date, slot.String())
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, model.ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("%w: %s %s", model.ErrSlotUnavailable, date, slot)
	}

	appointment := &model.Appointment{
		ID:               s.newID(),
		DoctorID:         req.DoctorID,
		PatientID:        p.ID,
		PatientFIO:       p.FIO,
		PatientBirthDate: p.BirthDate,
		PatientPhone:     p.Phone,
		Date:             date,
		TimeSlot:         slot.String(),
		Type:             req.Type,
		Status:           model.AppointmentStatusPending,
		CreatedAt:        s.now(),
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		if errors.Is(err, model.ErrSlotAlreadyBooked) {
			s.logger.Warn("Slot taken at commit",
				zap.Int64("doctor_id", req.DoctorID),
				zap.String("date", date),
				zap.String("slot", slot.String()))
			return nil, model.ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID),
		zap.Int64("doctor_id", appointment.DoctorID),
		zap.Int64("patient_id", appointment.PatientID),
		zap.String("date", appointment.Date),
		zap.String("slot", appointment.TimeSlot),
		zap.String("type", string(appointment.Type)),
	)

	return appointment, nil
}

// Cancel удаляет запись по просьбе пациента. Отменить можно только свою запись.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID string, patientID int64) error {
	appointment, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return model.ErrNotFound
	}
	if appointment.PatientID != patientID {
		return model.ErrForbidden
	}

	unlock := s.locks.Lock(appointment.DoctorID)
	defer unlock()

	deleted, err := s.repo.DeleteMany(ctx, []string{appointmentID})
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if deleted == 0 {
		return model.ErrNotFound
	}

	s.logger.Info("Appointment cancelled by patient",
		zap.String("appointment_id", appointmentID),
		zap.Int64("patient_id", patientID),
		zap.Int64("doctor_id", appointment.DoctorID),
	)
	return nil
}

// Confirm подтверждает запись врачом
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID string, doctorID int64) (*model.Appointment, error) {
	unlock := s.locks.Lock(doctorID)
	defer unlock()

	appointment, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil || !appointment.Active() {
		return nil, model.ErrNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, model.ErrForbidden
	}
	if appointment.Status == model.AppointmentStatusConfirmed {
		return appointment, nil
	}

	if err := s.repo.UpdateStatus(ctx, appointmentID, model.AppointmentStatusConfirmed); err != nil {
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}
	appointment.Status = model.AppointmentStatusConfirmed

	s.logger.Info("Appointment confirmed",
		zap.String("appointment_id", appointmentID),
		zap.Int64("doctor_id", doctorID),
	)
	return appointment, nil
}

// ListForDoctor записи врача, при date != nil только на эту дату.
// Отсортированы по дате и слоту.
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID int64, date *string) ([]*model.Appointment, error) {
	var (
		list []*model.Appointment
		err  error
	)
	if date != nil {
		list, err = s.repo.ListByDoctorAndDate(ctx, doctorID, *date)
	} else {
		list, err = s.repo.ListByDoctor(ctx, doctorID)
	}
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}

	model.SortAppointments(list)
	return list, nil
}

// ListForPatient записи пациента, отсортированные по дате и слоту
func (s *AppointmentService) ListForPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}

	model.SortAppointments(list)
	return list, nil
}

// DeleteCascade удаляет записи из реестра и индекса врачей одной записью
func (s *AppointmentService) DeleteCascade(ctx context.Context, ids []string) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete cascade: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Appointments deleted",
			zap.Int("requested", len(ids)),
			zap.Int("deleted", deleted),
		)
	}
	return deleted, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package repository

import (
	"context"
	"fmt"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, doctor_id, patient_id, patient_fio, patient_birth_date, patient_phone,
		date, time_slot, appointment_type, status, created_at`

// AppointmentRepository реестр записей в PostgreSQL. Уникальность
// (врач, дата, слот) среди неотменённых записей держит частичный уникальный индекс.
type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.PatientFIO,
		&a.PatientBirthDate,
		&a.PatientPhone,
		&a.Date,
		&a.TimeSlot,
		&a.Type,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// Create создаёт запись
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.Pool().Exec(
		ctx, query,
		a.ID,
		a.DoctorID,
		a.PatientID,
		a.PatientFIO,
		a.PatientBirthDate,
		a.PatientPhone,
		a.Date,
		a.TimeSlot,
		a.Type,
		a.Status,
		a.CreatedAt,
	)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create appointment: %w", model.ErrSlotAlreadyBooked)
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

// ListByDoctor получает все записи врача
func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY date, time_slot
	`

	appointments, err := r.list(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by doctor: %w", err)
	}
	return appointments, nil
}

// ListByDoctorAndDate получает записи врача на дату
func (r *AppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time_slot
	`

	appointments, err := r.list(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("get appointments by doctor and date: %w", err)
	}
	return appointments, nil
}

// ListByPatient получает все записи пациента
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date, time_slot
	`

	appointments, err := r.list(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by patient: %w", err)
	}
	return appointments, nil
}

// UpdateStatus обновляет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	affected, err := r.ExecAffected(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("update appointment status: %w", model.ErrSlotAlreadyBooked)
		}
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update appointment status: %w", model.ErrNotFound)
	}
	return nil
}

// DeleteMany удаляет записи одним запросом
func (r *AppointmentRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	affected, err := r.ExecAffected(ctx, `DELETE FROM appointments WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete appointments: %w", err)
	}
	return int(affected), nil
}

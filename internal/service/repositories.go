package service

import (
	"context"

	"github.com/VaInBlAt/appointment-bot/internal/model"
)

// Репозитории, с которыми работают сервисы. Реализации: repository (PostgreSQL)
// и repository/jsonrepo (JSON-документы).

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

type ScheduleRepository interface {
	Upsert(ctx context.Context, s *model.DoctorSchedule) error
	GetByDoctor(ctx context.Context, doctorID int64) (*model.DoctorSchedule, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListDoctors(ctx context.Context) ([]*model.User, error)
	UpdateWeekends(ctx context.Context, id int64, weekends model.DayOffSet) error
}

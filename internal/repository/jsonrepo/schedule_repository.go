package jsonrepo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
)

const schedulesDocument = "schedules"

// scheduleRecord плоская форма расписания в документе
type scheduleRecord struct {
	PatientTime  int         `json:"patient_time"`
	PrimaryStart model.Clock `json:"primary_start"`
	PrimaryEnd   model.Clock `json:"primary_end"`
	RepeatStart  model.Clock `json:"repeat_start"`
	RepeatEnd    model.Clock `json:"repeat_end"`
}

func (r scheduleRecord) toModel(doctorID int64) *model.DoctorSchedule {
	return &model.DoctorSchedule{
		DoctorID:     doctorID,
		SlotDuration: r.PatientTime,
		Primary:      model.Period{Start: r.PrimaryStart, End: r.PrimaryEnd},
		Repeat:       model.Period{Start: r.RepeatStart, End: r.RepeatEnd},
	}
}

func recordFromModel(s *model.DoctorSchedule) scheduleRecord {
	return scheduleRecord{
		PatientTime:  s.SlotDuration,
		PrimaryStart: s.Primary.Start,
		PrimaryEnd:   s.Primary.End,
		RepeatStart:  s.Repeat.Start,
		RepeatEnd:    s.Repeat.End,
	}
}

type schedulesDoc struct {
	Doctors map[string]scheduleRecord `json:"doctors"`
}

func newSchedulesDoc() *schedulesDoc {
	return &schedulesDoc{Doctors: make(map[string]scheduleRecord)}
}

func (d *schedulesDoc) Validate() error {
	for key, rec := range d.Doctors {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("schedule key %q: %w", key, err)
		}
		if err := rec.toModel(id).Validate(); err != nil {
			return fmt.Errorf("schedule of doctor %s: %w", key, err)
		}
	}
	return nil
}

type ScheduleRepository struct {
	store *storage.Store
}

func NewScheduleRepository(store *storage.Store) *ScheduleRepository {
	return &ScheduleRepository{store: store}
}

// Upsert заменяет расписание врача целиком
func (r *ScheduleRepository) Upsert(ctx context.Context, s *model.DoctorSchedule) error {
	doc := newSchedulesDoc()
	err := r.store.Update(schedulesDocument, doc, func() error {
		if doc.Doctors == nil {
			doc.Doctors = make(map[string]scheduleRecord)
		}
		doc.Doctors[doctorKey(s.DoctorID)] = recordFromModel(s)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

// GetByDoctor возвращает расписание или nil, если врач его не настроил
func (r *ScheduleRepository) GetByDoctor(ctx context.Context, doctorID int64) (*model.DoctorSchedule, error) {
	doc := newSchedulesDoc()
	if err := r.store.View(schedulesDocument, doc); err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	rec, ok := doc.Doctors[doctorKey(doctorID)]
	if !ok {
		return nil, nil
	}
	return rec.toModel(doctorID), nil
}

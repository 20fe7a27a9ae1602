// Package jsonrepo реализует репозитории поверх JSON-документов storage.Store.
package jsonrepo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
)

const appointmentsDocument = "appointments"

type doctorIndex struct {
	Appointments []string `json:"appointments"`
}

// appointmentsDoc два представления одного набора записей:
// плоский словарь по id и индекс id по врачу
type appointmentsDoc struct {
	Appointments map[string]*model.Appointment `json:"appointments"`
	Doctors      map[string]*doctorIndex       `json:"doctors"`
}

func newAppointmentsDoc() *appointmentsDoc {
	return &appointmentsDoc{
		Appointments: make(map[string]*model.Appointment),
		Doctors:      make(map[string]*doctorIndex),
	}
}

func doctorKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (d *appointmentsDoc) init() {
	if d.Appointments == nil {
		d.Appointments = make(map[string]*model.Appointment)
	}
	if d.Doctors == nil {
		d.Doctors = make(map[string]*doctorIndex)
	}
}

// Validate проверяет согласованность индекса врачей с плоским словарём
func (d *appointmentsDoc) Validate() error {
	indexed := make(map[string]struct{}, len(d.Appointments))
	for key, idx := range d.Doctors {
		if idx == nil {
			return fmt.Errorf("doctor %s: empty index entry", key)
		}
		for _, id := range idx.Appointments {
			if _, dup := indexed[id]; dup {
				return fmt.Errorf("doctor %s: appointment %s indexed twice", key, id)
			}
			a, ok := d.Appointments[id]
			if !ok || a == nil {
				return fmt.Errorf("doctor %s: indexed appointment %s is missing", key, id)
			}
			if doctorKey(a.DoctorID) != key {
				return fmt.Errorf("appointment %s indexed under doctor %s but belongs to %d", id, key, a.DoctorID)
			}
			indexed[id] = struct{}{}
		}
	}
	for id, a := range d.Appointments {
		if a == nil {
			return fmt.Errorf("appointment %s: null record", id)
		}
		if a.ID != id {
			return fmt.Errorf("appointment key %s does not match id %s", id, a.ID)
		}
		if err := a.Validate(); err != nil {
			return err
		}
		if _, ok := indexed[id]; !ok {
			return fmt.Errorf("appointment %s is not indexed for doctor %d", id, a.DoctorID)
		}
	}
	return nil
}

func (d *appointmentsDoc) forDoctor(doctorID int64) []*model.Appointment {
	idx, ok := d.Doctors[doctorKey(doctorID)]
	if !ok {
		return nil
	}
	result := make([]*model.Appointment, 0, len(idx.Appointments))
	for _, id := range idx.Appointments {
		result = append(result, d.Appointments[id])
	}
	return result
}

func (d *appointmentsDoc) remove(id string) bool {
	a, ok := d.Appointments[id]
	if !ok {
		return false
	}
	delete(d.Appointments, id)

	key := doctorKey(a.DoctorID)
	if idx, ok := d.Doctors[key]; ok {
		kept := idx.Appointments[:0]
		for _, other := range idx.Appointments {
			if other != id {
				kept = append(kept, other)
			}
		}
		idx.Appointments = kept
		if len(idx.Appointments) == 0 {
			delete(d.Doctors, key)
		}
	}
	return true
}

type AppointmentRepository struct {
	store *storage.Store
}

func NewAppointmentRepository(store *storage.Store) *AppointmentRepository {
	return &AppointmentRepository{store: store}
}

func (r *AppointmentRepository) view() (*appointmentsDoc, error) {
	doc := newAppointmentsDoc()
	if err := r.store.View(appointmentsDocument, doc); err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	doc.init()
	return doc, nil
}

// Create сохраняет запись. Уникальность (врач, дата, слот) среди неотменённых
// записей проверяется внутри той же записи документа.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := newAppointmentsDoc()
	err := r.store.Update(appointmentsDocument, doc, func() error {
		doc.init()

		if _, exists := doc.Appointments[a.ID]; exists {
			return fmt.Errorf("appointment %s already exists", a.ID)
		}
		for _, other := range doc.forDoctor(a.DoctorID) {
			if other.Active() && other.Date == a.Date && other.TimeSlot == a.TimeSlot {
				return model.ErrSlotAlreadyBooked
			}
		}

		stored := *a
		doc.Appointments[a.ID] = &stored

		key := doctorKey(a.DoctorID)
		idx, ok := doc.Doctors[key]
		if !ok {
			idx = &doctorIndex{}
			doc.Doctors[key] = idx
		}
		idx.Appointments = append(idx.Appointments, a.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// GetByID возвращает запись или nil, если её нет
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}
	a, ok := doc.Appointments[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

// ListByDoctor все записи врача в порядке индекса
func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}
	return doc.forDoctor(doctorID), nil
}

// ListByDoctorAndDate записи врача на дату
func (r *AppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID int64, date string) ([]*model.Appointment, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}

	var result []*model.Appointment
	for _, a := range doc.forDoctor(doctorID) {
		if a.Date == date {
			result = append(result, a)
		}
	}
	return result, nil
}

// ListByPatient записи пациента у всех врачей
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}

	var result []*model.Appointment
	for _, a := range doc.Appointments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

// UpdateStatus меняет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	doc := newAppointmentsDoc()
	err := r.store.Update(appointmentsDocument, doc, func() error {
		doc.init()
		a, ok := doc.Appointments[id]
		if !ok {
			return model.ErrNotFound
		}
		a.Status = status
		return nil
	})
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}

// DeleteMany удаляет записи из словаря и из индекса врача одной записью документа
func (r *AppointmentRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	deleted := 0
	doc := newAppointmentsDoc()
	err := r.store.Update(appointmentsDocument, doc, func() error {
		doc.init()
		deleted = 0
		for _, id := range ids {
			if doc.remove(id) {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete appointments: %w", err)
	}
	return deleted, nil
}

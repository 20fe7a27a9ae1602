package repository

import (
	"context"
	"fmt"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository расписания врачей. Время хранится в минутах от полуночи.
type ScheduleRepository struct {
	*base.Repository
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{Repository: base.NewRepository(pool)}
}

// Upsert сохраняет расписание, заменяя предыдущее
func (r *ScheduleRepository) Upsert(ctx context.Context, s *model.DoctorSchedule) error {
	query := `
		INSERT INTO doctor_schedules (doctor_id, slot_duration, primary_start, primary_end, repeat_start, repeat_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (doctor_id) DO UPDATE SET
			slot_duration = EXCLUDED.slot_duration,
			primary_start = EXCLUDED.primary_start,
			primary_end = EXCLUDED.primary_end,
			repeat_start = EXCLUDED.repeat_start,
			repeat_end = EXCLUDED.repeat_end,
			updated_at = NOW()
	`

	_, err := r.Pool().Exec(
		ctx, query,
		s.DoctorID,
		s.SlotDuration,
		s.Primary.Start.Minutes(),
		s.Primary.End.Minutes(),
		s.Repeat.Start.Minutes(),
		s.Repeat.End.Minutes(),
	)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// GetByDoctor получает расписание врача или nil
func (r *ScheduleRepository) GetByDoctor(ctx context.Context, doctorID int64) (*model.DoctorSchedule, error) {
	query := `
		SELECT slot_duration, primary_start, primary_end, repeat_start, repeat_end
		FROM doctor_schedules
		WHERE doctor_id = $1
	`

	var duration, ps, pe, rs, re int
	err := r.Pool().QueryRow(ctx, query, doctorID).Scan(&duration, &ps, &pe, &rs, &re)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	return &model.DoctorSchedule{
		DoctorID:     doctorID,
		SlotDuration: duration,
		Primary:      model.Period{Start: model.Clock(ps), End: model.Clock(pe)},
		Repeat:       model.Period{Start: model.Clock(rs), End: model.Clock(re)},
	}, nil
}

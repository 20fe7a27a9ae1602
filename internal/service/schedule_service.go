package service

import (
	"context"
	"fmt"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"go.uber.org/zap"
)

type ScheduleService struct {
	repo   ScheduleRepository
	logger *zap.Logger
}

func NewScheduleService(repo ScheduleRepository, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		repo:   repo,
		logger: logger,
	}
}

// SetSchedule проверяет и сохраняет расписание врача, заменяя прежнее целиком
func (s *ScheduleService) SetSchedule(ctx context.Context, doctorID int64, slotDuration int, primary, repeat model.Period) (*model.DoctorSchedule, error) {
	schedule := &model.DoctorSchedule{
		DoctorID:     doctorID,
		SlotDuration: slotDuration,
		Primary:      primary,
		Repeat:       repeat,
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, schedule); err != nil {
		return nil, fmt.Errorf("set schedule: %w", err)
	}

	s.logger.Info("Schedule saved",
		zap.Int64("doctor_id", doctorID),
		zap.Int("slot_duration", slotDuration),
		zap.String("primary", primary.String()),
		zap.String("repeat", repeat.String()),
	)

	return schedule, nil
}

// GetSchedule возвращает расписание врача или nil
func (s *ScheduleService) GetSchedule(ctx context.Context, doctorID int64) (*model.DoctorSchedule, error) {
	schedule, err := s.repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return schedule, nil
}

// HasSchedule прошёл ли врач первичную настройку расписания
func (s *ScheduleService) HasSchedule(ctx context.Context, doctorID int64) (bool, error) {
	schedule, err := s.GetSchedule(ctx, doctorID)
	if err != nil {
		return false, err
	}
	return schedule != nil, nil
}

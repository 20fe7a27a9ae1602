package model

import "fmt"

const (
	MinSlotDuration = 5
	MaxSlotDuration = 180
)

// DoctorSchedule настройки приёма врача: длительность слота и два рабочих периода
type DoctorSchedule struct {
	DoctorID     int64  `json:"doctor_id,string"`
	SlotDuration int    `json:"slot_duration_minutes"`
	Primary      Period `json:"primary_period"`
	Repeat       Period `json:"repeat_period"`
}

// Period возвращает рабочий период для типа приёма
func (s *DoctorSchedule) Period(t AppointmentType) Period {
	if t == AppointmentTypeRepeat {
		return s.Repeat
	}
	return s.Primary
}

func (s *DoctorSchedule) Validate() error {
	if s.SlotDuration < MinSlotDuration || s.SlotDuration > MaxSlotDuration {
		return fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidSlotDuration, s.SlotDuration, MinSlotDuration, MaxSlotDuration)
	}
	if err := s.Primary.Validate(); err != nil {
		return fmt.Errorf("primary period: %w", err)
	}
	if err := s.Repeat.Validate(); err != nil {
		return fmt.Errorf("repeat period: %w", err)
	}
	return nil
}

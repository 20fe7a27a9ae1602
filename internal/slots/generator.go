// Package slots нарезает рабочие периоды врача на интервалы записи.
package slots

import "github.com/VaInBlAt/appointment-bot/internal/model"

// Generate нарезает интервал [start, end) на слоты длительностью duration минут.
// Слот выдаётся, только если целиком помещается в интервал.
func Generate(start, end model.Clock, duration int) []model.Slot {
	if end <= start || duration <= 0 {
		return []model.Slot{}
	}

	result := make([]model.Slot, 0, (end.Minutes()-start.Minutes())/duration)
	for cur := start.Minutes(); cur+duration <= end.Minutes(); cur += duration {
		result = append(result, model.Slot{
			Start: model.Clock(cur),
			End:   model.Clock(cur + duration),
		})
	}
	return result
}

// ForPeriod слоты одного рабочего периода
func ForPeriod(p model.Period, duration int) []model.Slot {
	return Generate(p.Start, p.End, duration)
}

// ForType слоты периода, соответствующего типу приёма
func ForType(schedule *model.DoctorSchedule, t model.AppointmentType) []model.Slot {
	return ForPeriod(schedule.Period(t), schedule.SlotDuration)
}

// ForDay все слоты дня: сначала первичный приём, затем повторный.
// Пересекающиеся периоды не объединяются.
func ForDay(schedule *model.DoctorSchedule) []model.Slot {
	primary := ForPeriod(schedule.Primary, schedule.SlotDuration)
	repeat := ForPeriod(schedule.Repeat, schedule.SlotDuration)
	return append(primary, repeat...)
}

// Strings переводит слоты в строки ЧЧ:ММ-ЧЧ:ММ
func Strings(list []model.Slot) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.String()
	}
	return out
}

// Subtract убирает занятые слоты, сохраняя порядок исходного списка
func Subtract(all []string, booked map[string]struct{}) []string {
	free := make([]string, 0, len(all))
	for _, s := range all {
		if _, taken := booked[s]; taken {
			continue
		}
		free = append(free, s)
	}
	return free
}

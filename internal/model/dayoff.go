package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday день недели, 0 = понедельник, 6 = воскресенье
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf переводит time.Weekday в нумерацию с понедельника
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

const weekdayPrefix = "weekday:"

// DayOff выходной: конкретная дата (YYYY-MM-DD) или еженедельный день (weekday:N)
type DayOff string

// DateOff выходной на конкретную дату
func DateOff(t time.Time) DayOff {
	return DayOff(FormatDate(t))
}

// WeekdayOff еженедельный выходной
func WeekdayOff(w Weekday) DayOff {
	return DayOff(weekdayPrefix + strconv.Itoa(int(w)))
}

// ParseDayOff разбирает сохранённое значение выходного
func ParseDayOff(s string) (DayOff, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, weekdayPrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || !Weekday(n).Valid() {
			return "", fmt.Errorf("%w: weekday %q", ErrInvalidDate, s)
		}
		return WeekdayOff(Weekday(n)), nil
	}
	t, err := ParseDate(s, nil)
	if err != nil {
		return "", err
	}
	return DateOff(t), nil
}

// Weekday возвращает день недели, если выходной еженедельный
func (d DayOff) Weekday() (Weekday, bool) {
	rest, ok := strings.CutPrefix(string(d), weekdayPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return Weekday(n), true
}

// Date возвращает дату, если выходной разовый
func (d DayOff) Date() (string, bool) {
	if strings.HasPrefix(string(d), weekdayPrefix) {
		return "", false
	}
	return string(d), true
}

// Covers сообщает, попадает ли день t под этот выходной
func (d DayOff) Covers(t time.Time) bool {
	if w, ok := d.Weekday(); ok {
		return WeekdayOf(t) == w
	}
	return string(d) == FormatDate(t)
}

// DayOffSet набор выходных врача. Хранится как список строк.
type DayOffSet map[DayOff]struct{}

func NewDayOffSet(items ...DayOff) DayOffSet {
	s := make(DayOffSet, len(items))
	for _, d := range items {
		s[d] = struct{}{}
	}
	return s
}

// ParseDayOffSet собирает набор из сохранённых строк
func ParseDayOffSet(items []string) (DayOffSet, error) {
	s := make(DayOffSet, len(items))
	for _, raw := range items {
		d, err := ParseDayOff(raw)
		if err != nil {
			return nil, err
		}
		s[d] = struct{}{}
	}
	return s, nil
}

func (s DayOffSet) Has(d DayOff) bool {
	_, ok := s[d]
	return ok
}

// IsOff сообщает, является ли день t выходным
func (s DayOffSet) IsOff(t time.Time) bool {
	if _, ok := s[DateOff(t)]; ok {
		return true
	}
	_, ok := s[WeekdayOff(WeekdayOf(t))]
	return ok
}

func (s DayOffSet) Clone() DayOffSet {
	c := make(DayOffSet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

// Items возвращает выходные в стабильном порядке: сначала дни недели, затем даты
func (s DayOffSet) Items() []DayOff {
	items := make([]DayOff, 0, len(s))
	for d := range s {
		items = append(items, d)
	}
	sort.Slice(items, func(i, j int) bool {
		wi, iw := items[i].Weekday()
		wj, jw := items[j].Weekday()
		if iw != jw {
			return iw
		}
		if iw {
			return wi < wj
		}
		return items[i] < items[j]
	})
	return items
}

// Strings возвращает сохраняемое представление
func (s DayOffSet) Strings() []string {
	items := s.Items()
	out := make([]string, len(items))
	for i, d := range items {
		out[i] = string(d)
	}
	return out
}

// Diff возвращает выходные, добавленные и убранные относительно base
func (s DayOffSet) Diff(base DayOffSet) (added, removed []DayOff) {
	for _, d := range s.Items() {
		if !base.Has(d) {
			added = append(added, d)
		}
	}
	for _, d := range base.Items() {
		if !s.Has(d) {
			removed = append(removed, d)
		}
	}
	return added, removed
}

func (s DayOffSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *DayOffSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("day-off set: %w", err)
	}
	parsed, err := ParseDayOffSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Clock время суток в минутах от полуночи
type Clock int

// ParseClock разбирает время в формате ЧЧ:ММ (допускается Ч:ММ)
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hh, mm, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)

	return Clock(h*60 + m), nil
}

// Minutes возвращает количество минут от полуночи
func (c Clock) Minutes() int {
	return int(c)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimeFormat, string(data))
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Period рабочий интервал врача (первичный или повторный приём)
type Period struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// ParsePeriod разбирает границы периода и проверяет их порядок
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Period{}, err
	}

	p := Period{Start: s, End: e}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ParsePeriodRange разбирает период в формате ЧЧ:ММ-ЧЧ:ММ
func ParsePeriodRange(s string) (Period, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return ParsePeriod(start, end)
}

func (p Period) Validate() error {
	if p.End <= p.Start {
		return fmt.Errorf("%w: %s-%s", ErrInvalidPeriodOrdering, p.Start, p.End)
	}
	return nil
}

func (p Period) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// Slot дискретный интервал записи
type Slot struct {
	Start Clock
	End   Clock
}

// ParseSlot разбирает слот в формате ЧЧ:ММ-ЧЧ:ММ
func ParseSlot(s string) (Slot, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	st, err := ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	en, err := ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if en <= st {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidPeriodOrdering, s)
	}
	return Slot{Start: st, End: en}, nil
}

func (s Slot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

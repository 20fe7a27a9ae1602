package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"09:00": 540,
		"9:05":  545,
		"00:00": 0,
		"23:59": 1439,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.Minutes(), in)
	}

	for _, bad := range []string{"24:00", "9:5", "12:60", "", "ab:cd", "12-30"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, bad)
	}
}

func TestClockString(t *testing.T) {
	c, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c.String())
}

func TestParsePeriodOrdering(t *testing.T) {
	_, err := ParsePeriod("11:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidPeriodOrdering)

	_, err = ParsePeriod("09:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidPeriodOrdering)

	p, err := ParsePeriodRange("09:00-11:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00-11:00", p.String())
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("09:30-10:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30-10:00", s.String())

	_, err = ParseSlot("09:30")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = ParseSlot("10:00-09:30")
	assert.ErrorIs(t, err, ErrInvalidPeriodOrdering)
}

func TestPeriodJSONRejectsGarbage(t *testing.T) {
	var p Period
	err := json.Unmarshal([]byte(`{"start":"9","end":"10:00"}`), &p)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:00","end":"10:00"}`), &p))
	assert.Equal(t, 540, p.Start.Minutes())
}

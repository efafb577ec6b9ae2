package calendarutil

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	days := DaysInMonth(2025, time.February)
	assert.Len(t, days, 28)
	assert.Equal(t, "2025-02-01", ISODate(days[0]))
	assert.Equal(t, "2025-02-28", ISODate(days[len(days)-1]))
}

func TestIsWeekend(t *testing.T) {
	sat, err := ParseISODate("2025-10-04")
	require.NoError(t, err)
	mon, err := ParseISODate("2025-10-06")
	require.NoError(t, err)
	assert.True(t, IsWeekend(sat))
	assert.False(t, IsWeekend(mon))
}

func TestIsWeekendOrHoliday(t *testing.T) {
	holidays := map[string]bool{"2025-10-06": true}
	mon, _ := ParseISODate("2025-10-06")
	tue, _ := ParseISODate("2025-10-07")
	assert.True(t, IsWeekendOrHoliday(mon, holidays))
	assert.False(t, IsWeekendOrHoliday(tue, holidays))
}

func TestBucketByWeekKeepsOnlyGivenDays(t *testing.T) {
	days := DaysInMonth(2025, time.October)
	buckets := BucketByWeek(days)
	var total int
	for _, b := range buckets {
		total += len(b)
	}
	assert.Equal(t, len(days), total)
}

type fakeCalendar struct {
	holidays map[string]bool
}

func (f fakeCalendar) IsHoliday(d time.Time) (bool, bool, *cal.Holiday) {
	if f.holidays[ISODate(d)] {
		return true, true, &cal.Holiday{Name: "fake"}
	}
	return false, false, nil
}

func TestAutoFillHolidays(t *testing.T) {
	fc := fakeCalendar{holidays: map[string]bool{"2025-10-13": true}}
	found := AutoFillHolidays(2025, time.October, fc)
	assert.Equal(t, []string{"2025-10-13"}, found)
}

func TestNewHolidayCalendarUnsupportedLocale(t *testing.T) {
	_, err := NewHolidayCalendar("jp")
	assert.Error(t, err)
}

func TestNewHolidayCalendarUS(t *testing.T) {
	hc, err := NewHolidayCalendar("us")
	require.NoError(t, err)
	assert.NotNil(t, hc)
}

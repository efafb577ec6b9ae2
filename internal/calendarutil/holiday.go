package calendarutil

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	cal_us "github.com/rickar/cal/v2/us"
)

// HolidayCalendar is the subset of *cal.BusinessCalendar the auto-fill path
// needs, narrowed so callers can swap in a fake in tests.
type HolidayCalendar interface {
	IsHoliday(date time.Time) (actual, observed bool, h *cal.Holiday)
}

// NewHolidayCalendar builds a cal.BusinessCalendar for the given ISO locale
// code. Only "us" is wired today; extending to another locale means adding
// its cal/v2/<country> holiday table here (SPEC_FULL.md F.1).
func NewHolidayCalendar(iso string) (HolidayCalendar, error) {
	bc := cal.NewBusinessCalendar()
	switch iso {
	case "us":
		bc.AddHoliday(cal_us.Holidays...)
	default:
		return nil, fmt.Errorf("calendarutil: unsupported holiday locale %q", iso)
	}
	return bc, nil
}

// AutoFillHolidays returns, in ISODate form, every day of year/month that cal
// recognizes as a holiday. It never removes or overrides a caller-supplied
// holiday list; Rules.AutoHolidays only adds to what was explicitly given.
func AutoFillHolidays(year int, month time.Month, calendar HolidayCalendar) []string {
	var found []string
	for _, d := range DaysInMonth(year, month) {
		if actual, _, h := calendar.IsHoliday(d); actual && h != nil {
			found = append(found, ISODate(d))
		}
	}
	return found
}

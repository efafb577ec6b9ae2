// Package demand resolves the staffing requirement for a single day,
// following the fallback order original_source's _demand_for_day uses:
// an explicit per-date entry wins outright; otherwise holiday, then
// Sunday, then Saturday, then weekday buckets apply in that order.
package demand

import (
	"time"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/roster"
)

// Resolve returns the DemandVector in effect for date, given rules.
func Resolve(rules roster.Rules, date time.Time) roster.DemandVector {
	key := calendarutil.ISODate(date)
	if v, ok := rules.Demand[key]; ok {
		return v
	}

	holidays := rules.HolidaySet()
	switch {
	case holidays[key]:
		return rules.DemandDefaults.SaturdayHoliday
	case date.Weekday() == time.Sunday:
		return rules.DemandDefaults.Sunday
	case calendarutil.IsWeekend(date):
		return rules.DemandDefaults.SaturdayHoliday
	default:
		return rules.DemandDefaults.Weekday
	}
}

// ResolveMonth resolves every day in rules.Year/rules.Month at once,
// keyed by ISO date, for callers that want the whole month's demand
// without repeating the per-day holiday-set lookup.
func ResolveMonth(rules roster.Rules) map[string]roster.DemandVector {
	out := make(map[string]roster.DemandVector)
	for _, d := range calendarutil.DaysInMonth(rules.Year, time.Month(rules.Month)) {
		out[calendarutil.ISODate(d)] = Resolve(rules, d)
	}
	return out
}

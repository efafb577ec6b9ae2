package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/roster"
)

func baseRules() roster.Rules {
	return roster.Rules{
		Year: 2025, Month: 10,
		Holidays: []string{"2025-10-13"},
		DemandDefaults: roster.DemandDefaults{
			Weekday:         roster.DemandVector{DayMin: 4, DayMax: 6, Late: 2, Night: 2},
			SaturdayHoliday: roster.DemandVector{DayMin: 3, DayMax: 5, Late: 1, Night: 2},
			Sunday:          roster.DemandVector{DayMin: 2, DayMax: 4, Late: 1, Night: 2},
		},
	}
}

func TestResolveExplicitDateWins(t *testing.T) {
	rules := baseRules()
	rules.Demand = map[string]roster.DemandVector{
		"2025-10-01": {DayMin: 9, DayMax: 9, Late: 9, Night: 9},
	}
	d, err := calendarutil.ParseISODate("2025-10-01")
	require.NoError(t, err)
	got := Resolve(rules, d)
	assert.Equal(t, 9, got.DayMin)
}

func TestResolveSunday(t *testing.T) {
	rules := baseRules()
	d, err := calendarutil.ParseISODate("2025-10-05") // a Sunday
	require.NoError(t, err)
	assert.Equal(t, rules.DemandDefaults.Sunday, Resolve(rules, d))
}

func TestResolveHolidayFallsBackToSaturdayBucket(t *testing.T) {
	rules := baseRules()
	d, err := calendarutil.ParseISODate("2025-10-13") // a Monday holiday
	require.NoError(t, err)
	assert.Equal(t, rules.DemandDefaults.SaturdayHoliday, Resolve(rules, d))
}

func TestResolveHolidayOutranksSunday(t *testing.T) {
	rules := baseRules()
	rules.Holidays = append(rules.Holidays, "2025-10-12") // a Sunday that is also a holiday
	d, err := calendarutil.ParseISODate("2025-10-12")
	require.NoError(t, err)
	assert.Equal(t, rules.DemandDefaults.SaturdayHoliday, Resolve(rules, d))
}

func TestResolveWeekday(t *testing.T) {
	rules := baseRules()
	d, err := calendarutil.ParseISODate("2025-10-07") // a Tuesday
	require.NoError(t, err)
	assert.Equal(t, rules.DemandDefaults.Weekday, Resolve(rules, d))
}

func TestResolveMonthCoversEveryDay(t *testing.T) {
	rules := baseRules()
	out := ResolveMonth(rules)
	assert.Len(t, out, 31)
}

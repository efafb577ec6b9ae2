package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/obslog"
	"github.com/ty819/nurse-shift/internal/roster"
)

func TestBuildScheduleReturnsRelaxationSuggestionsWhenInfeasible(t *testing.T) {
	// A single nurse with every capability hard-gated off can never cover
	// any day's required DAY staffing, so the model is unsatisfiable.
	nurses := []roster.Nurse{{
		ID: "1", Team: roster.TeamA,
		DayOk: roster.BoolPtr(false), LateOk: roster.BoolPtr(false), NightOk: roster.BoolPtr(false),
	}}
	rules := roster.Rules{
		Year: 2025, Month: 2,
		DemandDefaults: roster.DemandDefaults{
			Weekday:         roster.DemandVector{DayMin: 1, DayMax: 1},
			SaturdayHoliday: roster.DemandVector{DayMin: 1, DayMax: 1},
			Sunday:          roster.DemandVector{DayMin: 1, DayMax: 1},
		},
	}

	result, err := BuildSchedule(context.Background(), nurses, rules, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "INFEASIBLE", result.Status)
	assert.NotEmpty(t, result.RequestID)
	assert.NotEmpty(t, result.Suggestions)
}

func TestApplyAutoHolidaysAddsUSHolidaysToExistingList(t *testing.T) {
	// New Year's Day 2025-01-01 is a US holiday; auto-fill must union it in
	// alongside an already-declared holiday rather than replacing it.
	rules := roster.Rules{
		Year: 2025, Month: 1,
		AutoHolidays: true, HolidayLocale: "us",
		Holidays: []string{"2025-01-15"},
	}

	out, err := applyAutoHolidays(rules, *obslog.WithComponent("test"))
	require.NoError(t, err)
	assert.Contains(t, out.Holidays, "2025-01-01")
	assert.Contains(t, out.Holidays, "2025-01-15")
}

func TestApplyAutoHolidaysNoopWhenDisabled(t *testing.T) {
	rules := roster.Rules{Year: 2025, Month: 1, Holidays: []string{"2025-01-15"}}

	out, err := applyAutoHolidays(rules, *obslog.WithComponent("test"))
	require.NoError(t, err)
	assert.Equal(t, rules.Holidays, out.Holidays)
}

func TestApplyAutoHolidaysRejectsUnsupportedLocale(t *testing.T) {
	rules := roster.Rules{Year: 2025, Month: 1, AutoHolidays: true, HolidayLocale: "fr"}
	_, err := applyAutoHolidays(rules, *obslog.WithComponent("test"))
	assert.Error(t, err)
}

func TestRecheckDelegatesToRecheckPackage(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1"}}
	rules := roster.Rules{Year: 2025, Month: 1}
	assignments := []roster.Assignment{{NurseID: "99", Date: "2025-01-01", Shift: roster.Off}}

	result, err := Recheck(assignments, nurses, rules)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Violations[0], "unknown nurse_id 99")
}

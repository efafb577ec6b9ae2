package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/roster"
)

func nurses() []roster.Nurse {
	return []roster.Nurse{
		{ID: "1", Name: "Aya", Team: roster.TeamA},
		{ID: "2", Name: "Bo", Team: roster.TeamB},
		{ID: "3", Name: "Cy", Team: roster.TeamER},
	}
}

func baseRules() roster.Rules {
	return roster.Rules{
		Year: 2025, Month: 1,
		DemandDefaults: roster.DemandDefaults{
			Weekday:         roster.DemandVector{DayMin: 2, DayMax: 3, Late: 0, Night: 0},
			SaturdayHoliday: roster.DemandVector{DayMin: 1, DayMax: 2, Late: 0, Night: 0},
			Sunday:          roster.DemandVector{DayMin: 1, DayMax: 2, Late: 0, Night: 0},
		},
	}
}

func TestAnalyzeFlagsDayShortage(t *testing.T) {
	rules := baseRules()
	// Every nurse OFF every day of January: DAY is always short.
	var schedule []roster.Assignment
	for day := 1; day <= 31; day++ {
		for _, n := range nurses() {
			schedule = append(schedule, roster.Assignment{NurseID: n.ID, Date: isoDate(day), Shift: roster.Off})
		}
	}

	result := Analyze(schedule, nurses(), rules, map[string]roster.MergedRule{}, nil)
	require.NotEmpty(t, result.Violations)
	foundShortage := false
	for _, v := range result.Violations {
		if v.Shift == roster.Day && v.Kind == "shortage" {
			foundShortage = true
		}
	}
	assert.True(t, foundShortage)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyzePerNurseTotals(t *testing.T) {
	rules := baseRules()
	schedule := []roster.Assignment{
		{NurseID: "1", Date: "2025-01-01", Shift: roster.Day},
		{NurseID: "1", Date: "2025-01-02", Shift: roster.Off},
	}
	result := Analyze(schedule, nurses(), rules, map[string]roster.MergedRule{}, nil)
	require.Len(t, result.PerNurse, 3)
	for _, p := range result.PerNurse {
		if p.NurseID == "1" {
			assert.Equal(t, 1, p.Counts.Day)
			assert.Equal(t, 1, p.TotalWorkDays)
		}
	}
}

func isoDate(day int) string {
	return calendarutil.ISODate(time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC))
}

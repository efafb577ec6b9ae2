package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = `Aチーム
2:管理者
9:日勤のみ
Bチーム
11:夜勤専従
その他
99:ignored, no team
`

func TestParseShiftMDAssignsTeamsAndCapabilities(t *testing.T) {
	nurses, rules := ParseShiftMD(sampleSheet, 2025, 10)
	require.Len(t, nurses, 3)

	byID := map[string]int{}
	for i, n := range nurses {
		byID[n.ID] = i
	}

	leader := nurses[byID["2"]]
	assert.True(t, leader.LeaderOk)
	assert.Equal(t, "A", string(leader.Team))

	dayOnly := nurses[byID["9"]]
	require.NotNil(t, dayOnly.NightOk)
	assert.False(t, *dayOnly.NightOk)
	require.NotNil(t, dayOnly.LateOk)
	assert.False(t, *dayOnly.LateOk)
	assert.True(t, rules.PersonRules["9"].OnlyDay)
	// 9 is also in the hardcoded cannot-lead-night table.
	assert.True(t, rules.PersonRules["9"].CannotLeadNight)

	nightOnly := nurses[byID["11"]]
	require.NotNil(t, nightOnly.DayOk)
	assert.False(t, *nightOnly.DayOk)
	assert.True(t, rules.PersonRules["11"].OnlyNight)
	assert.True(t, rules.PersonRules["11"].CannotLeadNight)
}

func TestParseShiftMDFixedTablesAlwaysPresent(t *testing.T) {
	_, rules := ParseShiftMD("", 2025, 10)
	assert.Equal(t, 10, len(rules.LeaderRequirement.WeekendHoliday))
	assert.Equal(t, [2]string{"7", "26"}, rules.ForbiddenPairs.Night[0])
	assert.Equal(t, 11, rules.DemandDefaults.Weekday.DayMin)
}

func TestParseShiftMDNightMonthlyRange(t *testing.T) {
	sheet := "Aチーム\n20:夜勤3-5回/月\n"
	_, rules := ParseShiftMD(sheet, 2025, 10)
	require.NotNil(t, rules.PersonRules["20"].NightMin)
	require.NotNil(t, rules.PersonRules["20"].NightMax)
	assert.Equal(t, 3, *rules.PersonRules["20"].NightMin)
	assert.Equal(t, 5, *rules.PersonRules["20"].NightMax)
}

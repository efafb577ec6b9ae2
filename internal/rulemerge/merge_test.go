package rulemerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/roster"
)

func TestMergeFallsBackToNurseBase(t *testing.T) {
	nurses := []roster.Nurse{
		{ID: "1", WeekMaxDays: roster.IntPtr(5), WeekendCap: roster.IntPtr(2)},
	}
	merged, effective, err := Merge(nurses, nil)
	require.NoError(t, err)

	mr := merged["1"]
	require.NotNil(t, mr.WeekMaxDays)
	assert.Equal(t, 5, *mr.WeekMaxDays)
	require.NotNil(t, mr.WeekendCap)
	assert.Equal(t, 2, *mr.WeekendCap)
	assert.True(t, effective["1"].DayOkBool())
}

func TestMergePersonRuleOverridesBase(t *testing.T) {
	nurses := []roster.Nurse{
		{ID: "1", WeekMaxDays: roster.IntPtr(5)},
	}
	personRules := map[string]roster.PersonRule{
		"1": {WeekMaxDays: roster.IntPtr(3)},
	}
	merged, _, err := Merge(nurses, personRules)
	require.NoError(t, err)
	require.NotNil(t, merged["1"].WeekMaxDays)
	assert.Equal(t, 3, *merged["1"].WeekMaxDays)
}

func TestMergeOnlyNightForcesCapabilities(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1"}}
	personRules := map[string]roster.PersonRule{"1": {OnlyNight: true}}
	_, effective, err := Merge(nurses, personRules)
	require.NoError(t, err)

	eff := effective["1"]
	assert.False(t, eff.DayOkBool())
	assert.False(t, eff.LateOkBool())
	assert.True(t, eff.NightOkBool())
}

func TestMergeNeverReopensHardGatedCapability(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1", NightOk: roster.BoolPtr(false)}}
	personRules := map[string]roster.PersonRule{"1": {OnlyDay: true}}
	_, effective, err := Merge(nurses, personRules)
	require.NoError(t, err)
	assert.False(t, effective["1"].NightOkBool())
}

func TestMergeDoesNotMutateCallerNurse(t *testing.T) {
	n := roster.Nurse{ID: "1"}
	nurses := []roster.Nurse{n}
	_, _, err := Merge(nurses, map[string]roster.PersonRule{"1": {OnlyNight: true}})
	require.NoError(t, err)
	assert.Nil(t, nurses[0].DayOk, "original slice element must be untouched")
}

package extract

import (
	"testing"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/modelbuild"
	"github.com/ty819/nurse-shift/internal/roster"
	"github.com/ty819/nurse-shift/internal/rulemerge"
)

func TestScheduleReadsOneShiftPerNurseDay(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1", Team: roster.TeamA}}
	rules := roster.Rules{Year: 2025, Month: 1}
	merged, effective, err := rulemerge.Merge(nurses, nil)
	require.NoError(t, err)
	m, err := modelbuild.Build(nurses, rules, merged, effective, nil)
	require.NoError(t, err)

	// Pretend every nurse is on DAY for every day.
	truthy := map[modelbuild.VarKey]bool{}
	for key := range m.Vars {
		truthy[key] = key.Shift == roster.Day
	}

	assignments, matched := Schedule(m, func(v cpmodel.BoolVar) bool {
		for key, value := range m.Vars {
			if value == v {
				return truthy[key]
			}
		}
		return false
	})

	assert.Len(t, assignments, 31)
	assert.Len(t, matched, 31)
	for _, a := range assignments {
		assert.Equal(t, roster.Day, a.Shift)
	}
}

package recheck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/roster"
)

func TestRecheckFlagsUnknownNurse(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1"}}
	rules := roster.Rules{Year: 2025, Month: 1}
	assignments := []roster.Assignment{{NurseID: "99", Date: "2025-01-01", Shift: roster.Off}}

	result, err := Recheck(assignments, nurses, rules)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Violations[0], "unknown nurse_id 99")
}

func TestRecheckFlagsCapabilityViolation(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1", NightOk: roster.BoolPtr(false)}}
	rules := roster.Rules{Year: 2025, Month: 1}
	var assignments []roster.Assignment
	assignments = append(assignments, roster.Assignment{NurseID: "1", Date: "2025-01-01", Shift: roster.Night})
	for day := 2; day <= 31; day++ {
		assignments = append(assignments, roster.Assignment{NurseID: "1", Date: isoDate(day), Shift: roster.Off})
	}

	result, err := Recheck(assignments, nurses, rules)
	require.NoError(t, err)
	assert.False(t, result.OK)
	found := false
	for _, v := range result.Violations {
		if v == "nurse 1 cannot take NIGHT 2025-01-01" {
			found = true
		}
	}
	assert.True(t, found)
}

func isoDate(day int) string {
	return calendarutil.ISODate(time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC))
}

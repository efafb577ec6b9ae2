package relax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ty819/nurse-shift/internal/roster"
)

func TestSuggestFlagsInsufficientDaySupply(t *testing.T) {
	nurses := []roster.Nurse{
		{ID: "1", DayOk: roster.BoolPtr(false)},
		{ID: "2", DayOk: roster.BoolPtr(false)},
	}
	rules := roster.Rules{
		Year: 2025, Month: 1,
		DemandDefaults: roster.DemandDefaults{
			Weekday: roster.DemandVector{DayMin: 3, DayMax: 5},
		},
	}
	suggestions := Suggest(nurses, rules)
	require := assert.New(t)
	found := false
	for _, s := range suggestions {
		if s.Type == "relax_day_min" {
			found = true
		}
	}
	require.True(found)
}

func TestSuggestAlwaysIncludesStandingSuggestions(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1"}}
	rules := roster.Rules{Year: 2025, Month: 1}
	suggestions := Suggest(nurses, rules)
	types := map[string]bool{}
	for _, s := range suggestions {
		types[s.Type] = true
	}
	assert.True(t, types["allow_weekend_day_without_leader"])
	assert.True(t, types["increase_off_quota_for_noncritical"])
}

func TestSuggestIncludesForbiddenPairException(t *testing.T) {
	nurses := []roster.Nurse{{ID: "1"}}
	rules := roster.Rules{Year: 2025, Month: 1, ForbiddenPairs: roster.ForbiddenPairs{Night: [][2]string{{"1", "2"}}}}
	suggestions := Suggest(nurses, rules)
	found := false
	for _, s := range suggestions {
		if s.Type == "exception_forbidden_pair_on_specific_day" {
			found = true
			assert.Equal(t, [2]string{"1", "2"}, s.Pair)
		}
	}
	assert.True(t, found)
}

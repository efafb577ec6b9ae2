// Package relax suggests rule relaxations when the model builder turns
// up infeasible, mirroring original_source's suggest_relaxations.
package relax

import (
	"time"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/demand"
	"github.com/ty819/nurse-shift/internal/roster"
)

// Suggestion is one candidate relaxation the caller could apply and
// retry the solve with.
type Suggestion struct {
	Type   string   `json:"type"`
	Amount int      `json:"amount,omitempty"`
	Dates  []string `json:"dates,omitempty"`
	Scope  string   `json:"scope,omitempty"`
	Pair   [2]string `json:"pair,omitempty"`
	Reason string   `json:"reason"`
}

// Suggest returns the fixed set of relaxation candidates original_source
// offers: a day-minimum relaxation for any date where DAY-capable supply
// can't meet the minimum, two standing suggestions that always apply when
// the model went infeasible, and a forbidden-pair exception when at least
// one night forbidden pair is configured.
func Suggest(nurses []roster.Nurse, rules roster.Rules) []Suggestion {
	days := calendarutil.DaysInMonth(rules.Year, time.Month(rules.Month))

	dayCapable := 0
	for _, n := range nurses {
		if n.DayOkBool() {
			dayCapable++
		}
	}

	var lowerDays []string
	for _, d := range days {
		dem := demand.Resolve(rules, d)
		if dayCapable < dem.DayMin {
			lowerDays = append(lowerDays, calendarutil.ISODate(d))
		}
	}

	var suggestions []Suggestion
	if len(lowerDays) > 0 {
		suggestions = append(suggestions, Suggestion{
			Type: "relax_day_min", Amount: 1, Dates: limit(lowerDays, 7),
			Reason: "DAY minimum staffing exceeds the number of DAY-capable nurses available",
		})
	}

	suggestions = append(suggestions, Suggestion{
		Type: "allow_weekend_day_without_leader", Scope: "weekend_holiday",
		Reason: "temporary relaxation when no leader can cover weekend/holiday DAY",
	})

	suggestions = append(suggestions, Suggestion{
		Type:   "increase_off_quota_for_noncritical",
		Reason: "trade-off candidate for consecutive-shift and night-shift constraints",
	})

	if len(rules.ForbiddenPairs.Night) > 0 {
		suggestions = append(suggestions, Suggestion{
			Type: "exception_forbidden_pair_on_specific_day", Pair: rules.ForbiddenPairs.Night[0],
			Reason: "exception limited to days where night composition otherwise can't be met",
		})
	}

	return suggestions
}

func limit(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Package recheck validates a hand-edited or externally produced
// schedule against a nurse roster's rules, mirroring original_source's
// recheck_assignments: structural checks (unknown nurse, out-of-month
// date, duplicate or missing assignment, hard capability violations) plus
// a full analyze.Analyze pass for coverage-level warnings.
package recheck

import (
	"fmt"
	"time"

	"github.com/ty819/nurse-shift/internal/analyze"
	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/roster"
	"github.com/ty819/nurse-shift/internal/rulemerge"
)

// Result is the outcome of rechecking a schedule.
type Result struct {
	OK              bool                     `json:"ok"`
	Violations      []string                 `json:"violations"`
	Summary         Summary                  `json:"summary"`
	Warnings        []string                 `json:"warnings"`
	ViolationsDetail []analyze.Violation     `json:"violations_detail"`
	ViolationCells  []analyze.ViolationCell  `json:"violation_cells"`
	Recommendations []analyze.Recommendation `json:"recommendations"`
}

// Summary is the per_day/per_nurse pair every analyze.Result exposes.
type Summary struct {
	PerDay   []analyze.PerDaySummary   `json:"per_day"`
	PerNurse []analyze.PerNurseSummary `json:"per_nurse"`
}

// Recheck validates assignments against nurses/rules and returns a full
// analysis alongside the structural violation list.
func Recheck(assignments []roster.Assignment, nurses []roster.Nurse, rules roster.Rules) (Result, error) {
	nurseByID := make(map[string]roster.Nurse, len(nurses))
	for _, n := range nurses {
		nurseByID[n.ID] = n
	}
	personRules := rules.PersonRules
	merged, effective, err := rulemerge.Merge(nurses, personRules)
	if err != nil {
		return Result{}, fmt.Errorf("recheck: merge rules: %w", err)
	}

	days := calendarutil.DaysInMonth(rules.Year, time.Month(rules.Month))
	validDates := make(map[string]bool, len(days))
	for _, d := range days {
		validDates[calendarutil.ISODate(d)] = true
	}

	var violations []string
	seen := make(map[[2]string]int)
	for _, a := range assignments {
		if _, ok := nurseByID[a.NurseID]; !ok {
			violations = append(violations, fmt.Sprintf("unknown nurse_id %s", a.NurseID))
			continue
		}
		if !validDates[a.Date] {
			violations = append(violations, fmt.Sprintf("date out of month %s", a.Date))
			continue
		}
		key := [2]string{a.NurseID, a.Date}
		seen[key]++
		if seen[key] > 1 {
			violations = append(violations, fmt.Sprintf("multiple shifts in a day for nurse %s at %s", a.NurseID, a.Date))
		}
		eff := effective[a.NurseID]
		if a.Shift == roster.Day && !eff.DayOkBool() {
			violations = append(violations, fmt.Sprintf("nurse %s cannot take DAY %s", a.NurseID, a.Date))
		}
		if a.Shift == roster.Late && !eff.LateOkBool() {
			violations = append(violations, fmt.Sprintf("nurse %s cannot take LATE %s", a.NurseID, a.Date))
		}
		if a.Shift == roster.Night && !eff.NightOkBool() {
			violations = append(violations, fmt.Sprintf("nurse %s cannot take NIGHT %s", a.NurseID, a.Date))
		}
	}

	for nid := range nurseByID {
		for dateKey := range validDates {
			if seen[[2]string{nid, dateKey}] == 0 {
				violations = append(violations, fmt.Sprintf("nurse %s missing assignment at %s", nid, dateKey))
			}
		}
	}

	analysis := analyze.Analyze(assignments, nurses, rules, merged, nil)
	ok := len(violations) == 0 && len(analysis.Violations) == 0

	return Result{
		OK:         ok,
		Violations: violations,
		Summary:    Summary{PerDay: analysis.PerDay, PerNurse: analysis.PerNurse},
		Warnings:   analysis.Warnings,
		ViolationsDetail: analysis.Violations,
		ViolationCells:   analysis.ViolationCells,
		Recommendations:  analysis.Recommendations,
	}, nil
}

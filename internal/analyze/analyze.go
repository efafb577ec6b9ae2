// Package analyze turns a schedule (and the rules it was built against)
// into the per-day/per-nurse summary, warnings, violations and
// recommendation set original_source's _analyze_schedule computes, so
// both a fresh CP-SAT solution and a re-checked hand-edited schedule can
// be reported on uniformly.
package analyze

import (
	"fmt"
	"time"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/demand"
	"github.com/ty819/nurse-shift/internal/roster"
)

// ShiftCounts tallies how many nurses landed on each shift on one day.
type ShiftCounts struct {
	Day   int `json:"DAY"`
	Late  int `json:"LATE"`
	Night int `json:"NIGHT"`
	Off   int `json:"OFF"`
}

// PerDaySummary is one day's coverage against its resolved demand.
type PerDaySummary struct {
	Date         string              `json:"date"`
	Weekday      string              `json:"weekday"`
	IsWeekend    bool                `json:"is_weekend"`
	IsHoliday    bool                `json:"is_holiday"`
	Requirements roster.DemandVector `json:"requirements"`
	Filled       ShiftCounts         `json:"filled"`
}

// Violation is one shift on one day that didn't meet its requirement.
type Violation struct {
	Date         string       `json:"date"`
	Shift        roster.Shift `json:"shift"`
	Kind         string       `json:"kind"` // "shortage" or "excess"
	Difference   int          `json:"difference"`
	Actual       int          `json:"actual"`
	RequiredMin  *int         `json:"required_min,omitempty"`
	RequiredMax  *int         `json:"required_max,omitempty"`
	Required     *int         `json:"required,omitempty"`
	Message      string       `json:"message"`
	MissingTeams []roster.Team `json:"missing_teams,omitempty"`
}

// ViolationCell is the compact (date, shift, kind) form used to highlight
// a roster grid cell in a UI, separate from the full Violation record.
type ViolationCell struct {
	Date  string       `json:"date"`
	Shift roster.Shift `json:"shift"`
	Kind  string       `json:"kind"`
}

// Recommendation bundles the ranked Candidate list offered for one
// violation.
type Recommendation struct {
	Date        string       `json:"date"`
	Shift       roster.Shift `json:"shift"`
	Kind        string       `json:"kind"`
	Difference  int          `json:"difference"`
	Suggestions []Candidate  `json:"suggestions"`
}

// RuleSummary is the subset of a nurse's MergedRule worth surfacing
// alongside their per-nurse totals.
type RuleSummary struct {
	NightMin       *int `json:"night_min,omitempty"`
	NightMax       *int `json:"night_max,omitempty"`
	WeekMaxDays    *int `json:"week_max_days,omitempty"`
	WeekendCap     *int `json:"weekend_cap,omitempty"`
	MonthQuotaDays *int `json:"month_quota_days,omitempty"`
}

// PerNurseSummary is one nurse's totals for the month.
type PerNurseSummary struct {
	NurseID       string      `json:"nurse_id"`
	Name          string      `json:"name"`
	Team          roster.Team `json:"team"`
	Counts        ShiftCounts `json:"counts"`
	WeekendWork   int         `json:"weekend_work"`
	TotalWorkDays int         `json:"total_work_days"`
	Rule          RuleSummary `json:"rule"`
}

// Result is everything Analyze computes for one schedule.
type Result struct {
	PerDay          []PerDaySummary   `json:"per_day"`
	PerNurse        []PerNurseSummary `json:"per_nurse"`
	Warnings        []string          `json:"warnings"`
	Violations      []Violation       `json:"violations"`
	ViolationCells  []ViolationCell   `json:"violation_cells"`
	Recommendations []Recommendation  `json:"recommendations"`
}

// expectedNightTeamCoverage is the fixed expectation used to compute
// which teams are short a NIGHT nurse on a given day (original_source
// hardcodes the same {A:1, B:1, ER:1} table).
var expectedNightTeamCoverage = map[roster.Team]int{roster.TeamA: 1, roster.TeamB: 1, roster.TeamER: 1}

// Analyze computes Result for schedule against rules/merged. locked
// marks which (nurse, date) pairs were pinned before solving, purely for
// annotating candidates; it may be nil.
func Analyze(schedule []roster.Assignment, nurses []roster.Nurse, rules roster.Rules, merged map[string]roster.MergedRule, locked []roster.Assignment) Result {
	days := calendarutil.DaysInMonth(rules.Year, time.Month(rules.Month))
	holidays := rules.HolidaySet()

	// Capability checks read the same only-day/only-night propagation
	// rulemerge applies to its EffectiveNurse view.
	nurseByID := make(map[string]roster.Nurse, len(nurses))
	for _, n := range nurses {
		rule := merged[n.ID]
		if rule.OnlyNight {
			n.DayOk, n.LateOk = roster.BoolPtr(false), roster.BoolPtr(false)
		}
		if rule.OnlyDay {
			n.LateOk, n.NightOk = roster.BoolPtr(false), roster.BoolPtr(false)
		}
		nurseByID[n.ID] = n
	}
	lockedSet := make(map[[2]string]bool, len(locked))
	for _, a := range locked {
		lockedSet[[2]string{a.NurseID, a.Date}] = true
	}

	perDayAssignments := make(map[string][]roster.Assignment)
	assignLookup := make(map[string]map[string]roster.Shift)
	for _, a := range schedule {
		perDayAssignments[a.Date] = append(perDayAssignments[a.Date], a)
		if assignLookup[a.NurseID] == nil {
			assignLookup[a.NurseID] = make(map[string]roster.Shift)
		}
		assignLookup[a.NurseID][a.Date] = a.Shift
	}

	var perDay []PerDaySummary
	var warnings []string
	var violations []Violation
	var violationCells []ViolationCell
	var recommendations []Recommendation

	for _, d := range days {
		key := calendarutil.ISODate(d)
		counts := ShiftCounts{}
		for _, a := range perDayAssignments[key] {
			switch a.Shift {
			case roster.Day:
				counts.Day++
			case roster.Late:
				counts.Late++
			case roster.Night:
				counts.Night++
			case roster.Off:
				counts.Off++
			}
		}
		dem := demand.Resolve(rules, d)
		perDay = append(perDay, PerDaySummary{
			Date:         key,
			Weekday:      calendarutil.WeekdayAbbrev(d),
			IsWeekend:    calendarutil.IsWeekend(d),
			IsHoliday:    holidays[key],
			Requirements: dem,
			Filled:       counts,
		})

		if counts.Day < dem.DayMin {
			deficit := dem.DayMin - counts.Day
			violations = append(violations, Violation{
				Date: key, Shift: roster.Day, Kind: "shortage", Difference: -deficit,
				Actual: counts.Day, RequiredMin: ptr(dem.DayMin), RequiredMax: ptr(dem.DayMax),
				Message: fmt.Sprintf("%s DAY shortage of %d (have %d, need %d)", key, deficit, counts.Day, dem.DayMin),
			})
			violationCells = append(violationCells, ViolationCell{Date: key, Shift: roster.Day, Kind: "shortage"})
			if cands := candidatesForShortage(key, roster.Day, assignLookup, nurseByID, lockedSet, ""); len(cands) > 0 {
				recommendations = append(recommendations, Recommendation{
					Date: key, Shift: roster.Day, Kind: "shortage", Difference: -deficit,
					Suggestions: limit(cands, max(3, deficit)),
				})
			}
		}
		if counts.Day > dem.DayMax {
			excess := counts.Day - dem.DayMax
			violations = append(violations, Violation{
				Date: key, Shift: roster.Day, Kind: "excess", Difference: excess,
				Actual: counts.Day, RequiredMin: ptr(dem.DayMin), RequiredMax: ptr(dem.DayMax),
				Message: fmt.Sprintf("%s DAY excess of %d (have %d, max %d)", key, excess, counts.Day, dem.DayMax),
			})
			violationCells = append(violationCells, ViolationCell{Date: key, Shift: roster.Day, Kind: "excess"})
			if cands := candidatesForExcess(key, roster.Day, assignLookup, lockedSet); len(cands) > 0 {
				recommendations = append(recommendations, Recommendation{
					Date: key, Shift: roster.Day, Kind: "excess", Difference: excess,
					Suggestions: limit(cands, max(3, excess)),
				})
			}
		}
		analyzeExactShift(key, roster.Late, counts.Late, dem.Late, assignLookup, nurseByID, lockedSet, &violations, &violationCells, &recommendations)
		analyzeNightShift(key, counts.Night, dem.Night, perDayAssignments[key], assignLookup, nurseByID, lockedSet, &violations, &violationCells, &recommendations)
	}

	var perNurse []PerNurseSummary
	for _, n := range nurses {
		rule := merged[n.ID]
		counts := ShiftCounts{}
		for _, shift := range assignLookup[n.ID] {
			switch shift {
			case roster.Day:
				counts.Day++
			case roster.Late:
				counts.Late++
			case roster.Night:
				counts.Night++
			case roster.Off:
				counts.Off++
			}
		}
		weekendWork := 0
		for _, d := range days {
			shift, ok := assignLookup[n.ID][calendarutil.ISODate(d)]
			if ok && shift.IsWork() && calendarutil.IsWeekendOrHoliday(d, holidays) {
				weekendWork++
			}
		}
		workDays := counts.Day + counts.Late + counts.Night

		perNurse = append(perNurse, PerNurseSummary{
			NurseID: n.ID, Name: n.Name, Team: n.Team,
			Counts: counts, WeekendWork: weekendWork, TotalWorkDays: workDays,
			Rule: RuleSummary{
				NightMin: rule.NightMin, NightMax: rule.NightMax,
				WeekMaxDays: rule.WeekMaxDays, WeekendCap: rule.WeekendCap,
				MonthQuotaDays: rule.MonthQuotaDays,
			},
		})

		if rule.NightMin != nil && counts.Night == *rule.NightMin {
			warnings = append(warnings, fmt.Sprintf("nurse %s is exactly at their night-shift minimum", n.ID))
		}
		if rule.NightMax != nil && counts.Night == *rule.NightMax {
			warnings = append(warnings, fmt.Sprintf("nurse %s is exactly at their night-shift maximum", n.ID))
		}
		if rule.WeekendCap != nil && weekendWork == *rule.WeekendCap {
			warnings = append(warnings, fmt.Sprintf("nurse %s has reached their weekend/holiday cap", n.ID))
		}
	}

	return Result{
		PerDay: perDay, PerNurse: perNurse, Warnings: warnings,
		Violations: violations, ViolationCells: violationCells, Recommendations: recommendations,
	}
}

func analyzeExactShift(key string, shift roster.Shift, actual, required int, assignLookup map[string]map[string]roster.Shift, nurseByID map[string]roster.Nurse, locked map[[2]string]bool, violations *[]Violation, cells *[]ViolationCell, recs *[]Recommendation) {
	if actual == required {
		return
	}
	diff := actual - required
	kind := "excess"
	if diff < 0 {
		kind = "shortage"
	}
	*violations = append(*violations, Violation{
		Date: key, Shift: shift, Kind: kind, Difference: diff, Actual: actual, Required: ptr(required),
		Message: fmt.Sprintf("%s %s does not match the required count (have %d, need %d)", key, shift, actual, required),
	})
	*cells = append(*cells, ViolationCell{Date: key, Shift: shift, Kind: kind})

	var cands []Candidate
	if diff < 0 {
		cands = candidatesForShortage(key, shift, assignLookup, nurseByID, locked, "")
	} else {
		cands = candidatesForExcess(key, shift, assignLookup, locked)
	}
	if len(cands) > 0 {
		*recs = append(*recs, Recommendation{Date: key, Shift: shift, Kind: kind, Difference: diff, Suggestions: limit(cands, 3)})
	}
}

func analyzeNightShift(key string, actual, required int, dayItems []roster.Assignment, assignLookup map[string]map[string]roster.Shift, nurseByID map[string]roster.Nurse, locked map[[2]string]bool, violations *[]Violation, cells *[]ViolationCell, recs *[]Recommendation) {
	if actual == required {
		return
	}
	diff := actual - required
	kind := "excess"
	if diff < 0 {
		kind = "shortage"
	}
	v := Violation{
		Date: key, Shift: roster.Night, Kind: kind, Difference: diff, Actual: actual, Required: ptr(required),
		Message: fmt.Sprintf("%s NIGHT does not match the required count (have %d, need %d)", key, actual, required),
	}

	if diff < 0 {
		teamCounts := map[roster.Team]int{}
		for _, a := range dayItems {
			if a.Shift == roster.Night {
				teamCounts[nurseByID[a.NurseID].Team]++
			}
		}
		var missing []roster.Team
		for _, team := range []roster.Team{roster.TeamA, roster.TeamB, roster.TeamER} {
			need := expectedNightTeamCoverage[team]
			for teamCounts[team] < need {
				missing = append(missing, team)
				teamCounts[team]++
			}
		}
		if len(missing) > 0 {
			v.MissingTeams = missing
		}
		*violations = append(*violations, v)
		*cells = append(*cells, ViolationCell{Date: key, Shift: roster.Night, Kind: kind})

		var cands []Candidate
		teamsToTry := missing
		if len(teamsToTry) == 0 {
			teamsToTry = []roster.Team{""}
		}
		for _, team := range teamsToTry {
			cands = append(cands, candidatesForShortage(key, roster.Night, assignLookup, nurseByID, locked, team)...)
		}
		if len(cands) > 0 {
			*recs = append(*recs, Recommendation{Date: key, Shift: roster.Night, Kind: kind, Difference: diff, Suggestions: limit(cands, max(3, -diff))})
		}
		return
	}

	*violations = append(*violations, v)
	*cells = append(*cells, ViolationCell{Date: key, Shift: roster.Night, Kind: kind})
	if cands := candidatesForExcess(key, roster.Night, assignLookup, locked); len(cands) > 0 {
		*recs = append(*recs, Recommendation{Date: key, Shift: roster.Night, Kind: kind, Difference: diff, Suggestions: limit(cands, 3)})
	}
}

func ptr(v int) *int { return &v }

func limit(cands []Candidate, n int) []Candidate {
	if len(cands) <= n {
		return cands
	}
	return cands[:n]
}

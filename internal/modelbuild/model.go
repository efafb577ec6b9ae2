// Package modelbuild compiles a month's nurses, rules and merged
// per-nurse overrides into a CP-SAT boolean model: one x[nurse,day,shift]
// variable per (nurse, day, shift) triple, with every constraint in
// SPEC_FULL.md's model-builder section added to the same builder so a
// single compiled model can be solved once or re-solved under blocking
// constraints for enumeration (internal/solve).
package modelbuild

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/demand"
	"github.com/ty819/nurse-shift/internal/roster"
	"github.com/ty819/nurse-shift/internal/rulemerge"
)

// VarKey identifies one decision variable.
type VarKey struct {
	NurseID string
	Date    string
	Shift   roster.Shift
}

// Model is the compiled CP-SAT builder plus the bookkeeping extract and
// analyze need to turn a solver response back into domain objects.
type Model struct {
	Builder  *cpmodel.CpModelBuilder
	Vars     map[VarKey]cpmodel.BoolVar
	NurseIDs []string
	Days     []time.Time
	Rules    roster.Rules
}

// Build compiles nurses/rules/merged/effective into a Model. effective
// supplies the capability-propagated view (rulemerge.Merge's second
// return value); merged supplies the numeric/boolean rule fields.
func Build(nurses []roster.Nurse, rules roster.Rules, merged map[string]roster.MergedRule, effective map[string]rulemerge.EffectiveNurse, locked []roster.Assignment) (*Model, error) {
	builder := cpmodel.NewCpModelBuilder()

	days := calendarutil.DaysInMonth(rules.Year, time.Month(rules.Month))
	nurseIDs := make([]string, len(nurses))
	nurseByID := make(map[string]roster.Nurse, len(nurses))
	for i, n := range nurses {
		nurseIDs[i] = n.ID
		nurseByID[n.ID] = n
	}

	vars := make(map[VarKey]cpmodel.BoolVar, len(nurseIDs)*len(days)*len(roster.AllShifts))
	for _, nid := range nurseIDs {
		for _, d := range days {
			for _, s := range roster.AllShifts {
				key := VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: s}
				vars[key] = builder.NewBoolVar().WithName(fmt.Sprintf("x_%s_%s_%s", nid, key.Date, s))
			}
		}
	}

	// Each nurse occupies exactly one shift per day.
	for _, nid := range nurseIDs {
		for _, d := range days {
			date := calendarutil.ISODate(d)
			var dayVars []cpmodel.BoolVar
			for _, s := range roster.AllShifts {
				dayVars = append(dayVars, vars[VarKey{NurseID: nid, Date: date, Shift: s}])
			}
			builder.AddExactlyOne(dayVars...)
		}
	}

	applyLockedAssignments(builder, vars, locked, nurseByID, days)

	holidays := rules.HolidaySet()
	weekToDays := calendarutil.BucketByWeek(days)
	var weekendDates, holidayDates []time.Time
	for _, d := range days {
		if calendarutil.IsWeekendOrHoliday(d, holidays) {
			weekendDates = append(weekendDates, d)
		}
		if holidays[calendarutil.ISODate(d)] {
			holidayDates = append(holidayDates, d)
		}
	}

	leaderWeekendCandidates := make(map[string]bool, len(rules.LeaderRequirement.WeekendHoliday))
	for _, id := range rules.LeaderRequirement.WeekendHoliday {
		leaderWeekendCandidates[id] = true
	}

	for _, d := range days {
		date := calendarutil.ISODate(d)
		dem := demand.Resolve(rules, d)

		addCoverage(builder, vars, nurseIDs, date, roster.Day, dem.DayMin, dem.DayMax)
		addExactCoverage(builder, vars, nurseIDs, date, roster.Late, dem.Late)
		addExactCoverage(builder, vars, nurseIDs, date, roster.Night, dem.Night)

		addExactlyOneByTeam(builder, vars, nurseIDs, nurseByID, date, roster.TeamA)
		addExactlyOneByTeam(builder, vars, nurseIDs, nurseByID, date, roster.TeamB)
		addExactlyOneByTeam(builder, vars, nurseIDs, nurseByID, date, roster.TeamER)

		if calendarutil.IsWeekendOrHoliday(d, holidays) {
			var leaderDayVars []cpmodel.BoolVar
			for _, nid := range nurseIDs {
				if leaderWeekendCandidates[nid] {
					leaderDayVars = append(leaderDayVars, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Day}])
				}
			}
			// Unconditional, unlike team composition above: an empty pool
			// must make the model infeasible (§8 invariant 4), not silently
			// drop the requirement.
			atLeastOne(builder, leaderDayVars)
		}

		for _, pair := range rules.ForbiddenPairs.Night {
			a, b := pair[0], pair[1]
			if _, okA := nurseByID[a]; !okA {
				continue
			}
			if _, okB := nurseByID[b]; !okB {
				continue
			}
			expr := cpmodel.NewLinearExpr()
			expr.Add(vars[VarKey{NurseID: a, Date: date, Shift: roster.Night}])
			expr.Add(vars[VarKey{NurseID: b, Date: date, Shift: roster.Night}])
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(1))
		}

		var nightLeaderVars []cpmodel.BoolVar
		for _, nid := range nurseIDs {
			if nurseByID[nid].LeaderOk && !merged[nid].CannotLeadNight {
				nightLeaderVars = append(nightLeaderVars, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
			}
		}
		// Unconditional, same reasoning as the weekend/holiday leader
		// constraint above (§8 invariant 5): no qualified night leader
		// means the model must come back infeasible.
		atLeastOne(builder, nightLeaderVars)
	}

	// Night-then-day/late adjacency is forbidden across consecutive days.
	for _, nid := range nurseIDs {
		for i := 0; i < len(days)-1; i++ {
			cur, next := calendarutil.ISODate(days[i]), calendarutil.ISODate(days[i+1])
			atMostOnePair(builder, vars[VarKey{NurseID: nid, Date: cur, Shift: roster.Night}], vars[VarKey{NurseID: nid, Date: next, Shift: roster.Day}])
			atMostOnePair(builder, vars[VarKey{NurseID: nid, Date: cur, Shift: roster.Night}], vars[VarKey{NurseID: nid, Date: next, Shift: roster.Late}])
		}
	}

	// Baseline monthly off-day floor: 9 days plus any extra_holidays override.
	for _, nid := range nurseIDs {
		offTarget := 9 + merged[nid].ExtraHolidays
		var offVars []cpmodel.BoolVar
		for _, d := range days {
			offVars = append(offVars, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Off}])
		}
		atLeastSum(builder, offVars, offTarget)
	}

	// Hard capability gates.
	for _, nid := range nurseIDs {
		eff := effective[nid]
		for _, d := range days {
			date := calendarutil.ISODate(d)
			if !eff.DayOkBool() {
				fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Day}])
			}
			if !eff.LateOkBool() {
				fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Late}])
			}
			if !eff.NightOkBool() {
				fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
			}
		}
	}

	// Per-nurse rule-driven constraints.
	for _, nid := range nurseIDs {
		rule := merged[nid]

		if rule.NightMin != nil {
			var nightVars []cpmodel.BoolVar
			for _, d := range days {
				nightVars = append(nightVars, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Night}])
			}
			atLeastSum(builder, nightVars, *rule.NightMin)
		}
		if rule.NightMax != nil {
			var nightVars []cpmodel.BoolVar
			for _, d := range days {
				nightVars = append(nightVars, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Night}])
			}
			atMostSum(builder, nightVars, *rule.NightMax)
		}
		if rule.ExcludeDayOnWeekend {
			for _, d := range days {
				if calendarutil.IsWeekendOrHoliday(d, holidays) {
					fixZero(builder, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Day}])
				}
			}
		}
		if rule.OnlyNight {
			for _, d := range days {
				date := calendarutil.ISODate(d)
				fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Day}])
				fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Late}])
				expr := cpmodel.NewLinearExpr()
				expr.Add(vars[VarKey{NurseID: nid, Date: date, Shift: roster.Off}])
				expr.Add(vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
				fixExact(builder, expr, 1)
			}
		}
		if rule.OnlyDay {
			for _, d := range days {
				fixZero(builder, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Night}])
			}
		}
		if rule.MonthQuotaDays != nil {
			var dayVars []cpmodel.BoolVar
			for _, d := range days {
				dayVars = append(dayVars, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Day}])
			}
			fixSumExact(builder, dayVars, *rule.MonthQuotaDays)
		}
		if rule.WeekMaxDays != nil {
			cap := *rule.WeekMaxDays
			for _, weekDays := range weekToDays {
				var workVars []cpmodel.BoolVar
				for _, d := range weekDays {
					date := calendarutil.ISODate(d)
					for _, s := range roster.WorkShifts {
						workVars = append(workVars, vars[VarKey{NurseID: nid, Date: date, Shift: s}])
					}
				}
				atMostSum(builder, workVars, cap)
			}
		}
		if rule.WeekendCap != nil {
			var workVars []cpmodel.BoolVar
			for _, d := range weekendDates {
				date := calendarutil.ISODate(d)
				for _, s := range roster.WorkShifts {
					workVars = append(workVars, vars[VarKey{NurseID: nid, Date: date, Shift: s}])
				}
			}
			atMostSum(builder, workVars, *rule.WeekendCap)
		}
		if rule.WeekendOff {
			for _, d := range weekendDates {
				fixExactVar(builder, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Off}])
			}
		}
		if rule.HolidayOff {
			for _, d := range holidayDates {
				fixExactVar(builder, vars[VarKey{NurseID: nid, Date: calendarutil.ISODate(d), Shift: roster.Off}])
			}
		}
		if rule.WeekendDayOnly {
			for _, d := range days {
				date := calendarutil.ISODate(d)
				if calendarutil.IsWeekendOrHoliday(d, holidays) {
					fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Late}])
					fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
				} else {
					fixExactVar(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Off}])
				}
			}
		}
		if rule.WeekendOnlyNight {
			for _, d := range days {
				date := calendarutil.ISODate(d)
				if !calendarutil.IsWeekendOrHoliday(d, holidays) {
					fixZero(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
					fixExactVar(builder, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Off}])
				}
			}
		}
	}

	return &Model{Builder: builder, Vars: vars, NurseIDs: nurseIDs, Days: days, Rules: rules}, nil
}

func applyLockedAssignments(builder *cpmodel.CpModelBuilder, vars map[VarKey]cpmodel.BoolVar, locked []roster.Assignment, nurseByID map[string]roster.Nurse, days []time.Time) {
	if len(locked) == 0 {
		return
	}
	validDates := make(map[string]bool, len(days))
	for _, d := range days {
		validDates[calendarutil.ISODate(d)] = true
	}
	for _, a := range locked {
		if _, ok := nurseByID[a.NurseID]; !ok {
			continue
		}
		if !validDates[a.Date] {
			continue
		}
		if !a.Shift.Valid() {
			continue
		}
		for _, s := range roster.AllShifts {
			key := VarKey{NurseID: a.NurseID, Date: a.Date, Shift: s}
			if s == a.Shift {
				fixExactVar(builder, vars[key])
			} else {
				fixZero(builder, vars[key])
			}
		}
	}
}

func addCoverage(builder *cpmodel.CpModelBuilder, vars map[VarKey]cpmodel.BoolVar, nurseIDs []string, date string, shift roster.Shift, min, max int) {
	expr := cpmodel.NewLinearExpr()
	for _, nid := range nurseIDs {
		expr.Add(vars[VarKey{NurseID: nid, Date: date, Shift: shift}])
	}
	builder.AddLessOrEqual(cpmodel.NewConstant(int64(min)), expr)
	builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(max)))
}

func addExactCoverage(builder *cpmodel.CpModelBuilder, vars map[VarKey]cpmodel.BoolVar, nurseIDs []string, date string, shift roster.Shift, target int) {
	expr := cpmodel.NewLinearExpr()
	for _, nid := range nurseIDs {
		expr.Add(vars[VarKey{NurseID: nid, Date: date, Shift: shift}])
	}
	fixExact(builder, expr, target)
}

func addExactlyOneByTeam(builder *cpmodel.CpModelBuilder, vars map[VarKey]cpmodel.BoolVar, nurseIDs []string, nurseByID map[string]roster.Nurse, date string, team roster.Team) {
	var teamVars []cpmodel.BoolVar
	for _, nid := range nurseIDs {
		if nurseByID[nid].Team == team {
			teamVars = append(teamVars, vars[VarKey{NurseID: nid, Date: date, Shift: roster.Night}])
		}
	}
	if len(teamVars) > 0 {
		builder.AddExactlyOne(teamVars...)
	}
}

func atLeastOne(builder *cpmodel.CpModelBuilder, vars []cpmodel.BoolVar) {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	builder.AddLessOrEqual(cpmodel.NewConstant(1), expr)
}

func atMostOnePair(builder *cpmodel.CpModelBuilder, a, b cpmodel.BoolVar) {
	expr := cpmodel.NewLinearExpr()
	expr.Add(a)
	expr.Add(b)
	builder.AddLessOrEqual(expr, cpmodel.NewConstant(1))
}

func atLeastSum(builder *cpmodel.CpModelBuilder, vars []cpmodel.BoolVar, min int) {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	builder.AddLessOrEqual(cpmodel.NewConstant(int64(min)), expr)
}

func atMostSum(builder *cpmodel.CpModelBuilder, vars []cpmodel.BoolVar, max int) {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(max)))
}

// fixExact and fixZero sandwich an equality between two AddLessOrEqual
// calls, the same technique the grounded nurses_sat.go sample uses to
// bound a linear expression between a min and a max (here min == max).
func fixExact(builder *cpmodel.CpModelBuilder, expr *cpmodel.LinearExpr, value int) {
	builder.AddLessOrEqual(cpmodel.NewConstant(int64(value)), expr)
	builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(value)))
}

func fixSumExact(builder *cpmodel.CpModelBuilder, vars []cpmodel.BoolVar, value int) {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	fixExact(builder, expr, value)
}

func fixZero(builder *cpmodel.CpModelBuilder, v cpmodel.BoolVar) {
	expr := cpmodel.NewLinearExpr()
	expr.Add(v)
	fixExact(builder, expr, 0)
}

func fixExactVar(builder *cpmodel.CpModelBuilder, v cpmodel.BoolVar) {
	expr := cpmodel.NewLinearExpr()
	expr.Add(v)
	fixExact(builder, expr, 1)
}

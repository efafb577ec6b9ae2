// Package core orchestrates the full nurse-shift pipeline: ingest or
// caller-supplied nurses/rules go through rulemerge, modelbuild, solve,
// extract and analyze to produce a schedule, or through recheck to
// validate one that already exists. This is the one place that wires
// every other internal package together; cmd/nurseshift is a thin shell
// over it.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ty819/nurse-shift/internal/analyze"
	"github.com/ty819/nurse-shift/internal/calendarutil"
	"github.com/ty819/nurse-shift/internal/modelbuild"
	"github.com/ty819/nurse-shift/internal/obslog"
	"github.com/ty819/nurse-shift/internal/recheck"
	"github.com/ty819/nurse-shift/internal/relax"
	"github.com/ty819/nurse-shift/internal/roster"
	"github.com/ty819/nurse-shift/internal/rulemerge"
	"github.com/ty819/nurse-shift/internal/solve"
)

// NurseMeta is the trimmed per-nurse identity carried alongside a
// BuildResult, matching the `nurses_meta` shape build_schedule returns.
type NurseMeta struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Team     roster.Team `json:"team"`
	LeaderOk bool        `json:"leader_ok"`
}

// PlanSolution is one alternative schedule, labeled per spec.md §6 ("案<k>").
type PlanSolution struct {
	PlanID          string               `json:"plan_id"`
	Label           string               `json:"label"`
	Assignments     []roster.Assignment  `json:"assignments"`
	PerDay          []analyze.PerDaySummary   `json:"per_day"`
	PerNurse        []analyze.PerNurseSummary `json:"per_nurse"`
	Warnings        []string                  `json:"warnings"`
	Violations      []analyze.Violation       `json:"violations"`
	ViolationCells  []analyze.ViolationCell   `json:"violation_cells"`
	Recommendations []analyze.Recommendation  `json:"recommendations"`
}

// BuildResult is the full response of a BuildSchedule call.
type BuildResult struct {
	RequestID           string              `json:"request_id"`
	Status              string              `json:"status"`
	Message             string              `json:"message,omitempty"`
	Year                int                 `json:"year,omitempty"`
	Month               int                 `json:"month,omitempty"`
	Days                []string            `json:"days,omitempty"`
	Nurses              []NurseMeta         `json:"nurses,omitempty"`
	Assignments         []roster.Assignment `json:"assignments,omitempty"`
	Summary             BuildSummary        `json:"summary,omitempty"`
	Warnings            []string            `json:"warnings,omitempty"`
	Violations          []analyze.Violation       `json:"violations,omitempty"`
	ViolationCells      []analyze.ViolationCell   `json:"violation_cells,omitempty"`
	Recommendations     []analyze.Recommendation  `json:"recommendations,omitempty"`
	Solutions           []PlanSolution      `json:"solutions,omitempty"`
	AlternativesReturned int                `json:"alternatives_returned,omitempty"`
	LockedAssignments   []roster.Assignment `json:"locked_assignments,omitempty"`
	Suggestions         []relax.Suggestion  `json:"suggestions,omitempty"`
}

// BuildSummary is the primary solution's per_day/per_nurse pair, echoed
// at the top level for callers that only want the first plan.
type BuildSummary struct {
	PerDay   []analyze.PerDaySummary   `json:"per_day"`
	PerNurse []analyze.PerNurseSummary `json:"per_nurse"`
}

// BuildSchedule runs the merge-to-analyze pipeline for one month on
// already parsed nurses and rules.
// alternatives <= 1 returns a single plan; higher values enumerate up to
// that many distinct feasible schedules.
func BuildSchedule(ctx context.Context, nurses []roster.Nurse, rules roster.Rules, locked []roster.Assignment, alternatives int) (BuildResult, error) {
	requestID := uuid.NewString()
	log := obslog.WithComponent("core").With().Str("request_id", requestID).Logger()
	log.Info().Int("year", rules.Year).Int("month", rules.Month).Int("nurses", len(nurses)).Int("alternatives", alternatives).Msg("build schedule: start")

	rules, err := applyAutoHolidays(rules, log)
	if err != nil {
		return BuildResult{}, err
	}

	merged, effective, err := rulemerge.Merge(nurses, rules.PersonRules)
	if err != nil {
		return BuildResult{}, fmt.Errorf("build schedule: merge rules: %w", err)
	}

	model, err := modelbuild.Build(nurses, rules, merged, effective, locked)
	if err != nil {
		return BuildResult{}, fmt.Errorf("build schedule: compile model: %w", err)
	}

	result, err := solve.Solve(ctx, model, alternatives)
	if err != nil {
		return BuildResult{}, fmt.Errorf("build schedule: solve: %w", err)
	}

	if result.Status == solve.Infeasible {
		log.Warn().Msg("build schedule: model infeasible, returning relaxation suggestions")
		return BuildResult{
			RequestID:   requestID,
			Status:      string(solve.Infeasible),
			Message:     "no feasible solution found",
			Suggestions: relax.Suggest(nurses, rules),
		}, nil
	}

	days := make([]string, 0, len(model.Days))
	for _, d := range model.Days {
		days = append(days, d.Format("2006-01-02"))
	}
	nurseMeta := make([]NurseMeta, 0, len(nurses))
	for _, n := range nurses {
		nurseMeta = append(nurseMeta, NurseMeta{ID: n.ID, Name: n.Name, Team: n.Team, LeaderOk: n.LeaderOk})
	}

	plans := make([]PlanSolution, 0, len(result.Solutions))
	for i, sol := range result.Solutions {
		analysis := analyze.Analyze(sol.Assignments, nurses, rules, merged, locked)
		plans = append(plans, PlanSolution{
			PlanID: fmt.Sprintf("plan-%d", i+1), Label: fmt.Sprintf("案%d", i+1),
			Assignments: sol.Assignments,
			PerDay:      analysis.PerDay, PerNurse: analysis.PerNurse,
			Warnings: analysis.Warnings, Violations: analysis.Violations,
			ViolationCells: analysis.ViolationCells, Recommendations: analysis.Recommendations,
		})
	}

	primary := plans[0]
	out := BuildResult{
		RequestID: requestID,
		Status:    string(solve.Feasible),
		Year:   rules.Year, Month: rules.Month, Days: days, Nurses: nurseMeta,
		Assignments: primary.Assignments,
		Summary:     BuildSummary{PerDay: primary.PerDay, PerNurse: primary.PerNurse},
		Warnings:    primary.Warnings, Violations: primary.Violations,
		ViolationCells: primary.ViolationCells, Recommendations: primary.Recommendations,
		Solutions: plans, AlternativesReturned: len(plans),
	}
	if len(locked) > 0 {
		out.LockedAssignments = locked
	}
	return out, nil
}

// applyAutoHolidays unions calendarutil.AutoFillHolidays into rules.Holidays
// when rules.AutoHolidays is set (SPEC_FULL.md F.1), before rulemerge.Merge
// runs. An explicitly listed holiday is never touched; auto-fill only adds.
func applyAutoHolidays(rules roster.Rules, log zerolog.Logger) (roster.Rules, error) {
	if !rules.AutoHolidays {
		return rules, nil
	}
	locale := rules.HolidayLocale
	if locale == "" {
		locale = "us"
	}
	cal, err := calendarutil.NewHolidayCalendar(locale)
	if err != nil {
		return roster.Rules{}, fmt.Errorf("build schedule: auto holidays: %w", err)
	}
	found := calendarutil.AutoFillHolidays(rules.Year, time.Month(rules.Month), cal)
	log.Info().Int("count", len(found)).Str("locale", locale).Msg("build schedule: auto-filled holidays")
	rules.Holidays = append(rules.Holidays, found...)
	return rules, nil
}

// Recheck validates assignments against nurses/rules.
func Recheck(assignments []roster.Assignment, nurses []roster.Nurse, rules roster.Rules) (recheck.Result, error) {
	return recheck.Recheck(assignments, nurses, rules)
}

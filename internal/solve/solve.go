// Package solve drives a compiled modelbuild.Model through OR-Tools
// CP-SAT, either once or, for enumeration, by re-solving the same
// builder with a blocking constraint added after each solution so the
// next solve is forced to differ from every one already found.
package solve

import (
	"context"
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/google/or-tools/ortools/sat/go/sat"

	"github.com/ty819/nurse-shift/internal/extract"
	"github.com/ty819/nurse-shift/internal/modelbuild"
	"github.com/ty819/nurse-shift/internal/obslog"
	"github.com/ty819/nurse-shift/internal/roster"
)

// maxSolveSeconds is the per-solve wall-clock budget spec.md §4.5 mandates
// ("solve once with a 30-second wall-clock budget"), matching
// optimizer.py:599's `solver.parameters.max_time_in_seconds = 30.0`.
const maxSolveSeconds = 30

// Status mirrors the two outcomes the rest of the core pipeline cares
// about; OR-Tools' OPTIMAL and FEASIBLE are both folded into Feasible
// since this model carries no optimization objective (SPEC_FULL.md §9).
type Status string

const (
	Feasible   Status = "OK"
	Infeasible Status = "INFEASIBLE"
)

// Solution is one feasible assignment of every x[nurse,day,shift] variable.
type Solution struct {
	Assignments []roster.Assignment
}

// Result is the outcome of a solve, with zero or more Solutions depending
// on whether enumeration was requested and how many alternatives were found.
type Result struct {
	Status    Status
	Solutions []Solution
}

// feasibleStatuses names the CpSolverStatus values SolveCpModel returns
// that carry a usable assignment. The grounded sample
// (nurses_sat.go) only ever prints response.GetStatus() rather than
// branching on it, so rather than guess at the status enum's Go import
// path this compares against its string form, which %v already proves
// is meaningful.
var feasibleStatuses = map[string]bool{"OPTIMAL": true, "FEASIBLE": true}

// Solve solves m and returns up to `alternatives`
// distinct solutions. alternatives <= 1 means "just the first solution
// found"; values above 1 enumerate via blocking constraints (DESIGN.md
// Open Question 2), stopping early if the model runs out of distinct
// solutions before the limit.
func Solve(ctx context.Context, m *modelbuild.Model, alternatives int) (Result, error) {
	log := obslog.WithComponent("solve")
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if alternatives < 1 {
		alternatives = 1
	}

	var solutions []Solution
	for len(solutions) < alternatives {
		proto, err := m.Builder.Model()
		if err != nil {
			return Result{}, fmt.Errorf("compile model: %w", err)
		}

		response, err := cpmodel.SolveCpModelWithParameters(proto, &sat.SatParameters{MaxTimeInSeconds: maxSolveSeconds})
		if err != nil {
			return Result{}, fmt.Errorf("solve model: %w", err)
		}

		if !feasibleStatuses[fmt.Sprintf("%v", response.GetStatus())] {
			break
		}

		assignments, matchedVars := extract.Schedule(m, func(v cpmodel.BoolVar) bool {
			return cpmodel.SolutionBooleanValue(response, v)
		})
		solutions = append(solutions, Solution{Assignments: assignments})
		log.Debug().Int("solution_count", len(solutions)).Msg("solve: found solution")

		if len(solutions) >= alternatives {
			break
		}

		// Block this exact assignment so the next solve call on the same
		// builder is forced to return something different: at least one
		// of the variables that were true here must now be false.
		blocker := cpmodel.NewLinearExpr()
		for _, v := range matchedVars {
			blocker.Add(v)
		}
		m.Builder.AddLessOrEqual(blocker, cpmodel.NewConstant(int64(len(matchedVars)-1)))
	}

	if len(solutions) == 0 {
		return Result{Status: Infeasible}, nil
	}
	return Result{Status: Feasible, Solutions: solutions}, nil
}

// Package extract reads a solved CP-SAT response back into a plain
// []roster.Assignment, mirroring original_source's _extract_schedule.
package extract

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/ty819/nurse-shift/internal/modelbuild"
	"github.com/ty819/nurse-shift/internal/roster"
)

// BooleanValue is the subset of a CpSolverResponse that Schedule needs:
// the value of one variable. A caller with a real response wraps
// cpmodel.SolutionBooleanValue(response, v) in a closure.
type BooleanValue func(v cpmodel.BoolVar) bool

// Schedule walks every (nurse, day, shift) variable in m and returns the
// one assignment per (nurse, day) that valueOf reports true for, together
// with the matched variables themselves (needed by solve's blocking-
// constraint enumeration).
func Schedule(m *modelbuild.Model, valueOf BooleanValue) ([]roster.Assignment, []cpmodel.BoolVar) {
	var assignments []roster.Assignment
	var matched []cpmodel.BoolVar
	for _, nid := range m.NurseIDs {
		for _, d := range m.Days {
			date := d.Format("2006-01-02")
			for _, s := range roster.AllShifts {
				v := m.Vars[modelbuild.VarKey{NurseID: nid, Date: date, Shift: s}]
				if valueOf(v) {
					assignments = append(assignments, roster.Assignment{NurseID: nid, Date: date, Shift: s})
					matched = append(matched, v)
					break
				}
			}
		}
	}
	return assignments, matched
}

package analyze

import (
	"fmt"
	"sort"

	"github.com/ty819/nurse-shift/internal/roster"
)

// Candidate is one nurse the analyzer suggests moving onto or off of a
// shift to resolve a coverage violation.
type Candidate struct {
	NurseID        string       `json:"nurse_id"`
	CurrentShift   roster.Shift `json:"current_shift"`
	SuggestedShift roster.Shift `json:"suggested_shift"`
	Locked         bool         `json:"locked"`
	Reason         string       `json:"reason"`
}

type rankedCandidate struct {
	Candidate
	score int
}

// candidatesForShortage ranks every nurse by how cheap a move onto shift
// on date would be, following the movement-cost table
// _candidate_pool_for_shortage uses: a nurse already OFF costs least,
// one already on an adjacent shift costs a bit more, one already on the
// target shift is skipped, and (for NIGHT only) a missingTeam filter
// restricts candidates to the team that's short, same as the original.
func candidatesForShortage(date string, shift roster.Shift, assignLookup map[string]map[string]roster.Shift, nurseByID map[string]roster.Nurse, locked map[[2]string]bool, missingTeam roster.Team) []Candidate {
	var ranked []rankedCandidate
	for nid, nurse := range nurseByID {
		current, ok := assignLookup[nid][date]
		if !ok {
			current = roster.Off
		}
		isLocked := locked[[2]string{nid, date}]

		score, skip := movementScore(nurse, shift, current, missingTeam)
		if skip {
			continue
		}
		ranked = append(ranked, rankedCandidate{
			Candidate: Candidate{
				NurseID:        nid,
				CurrentShift:   current,
				SuggestedShift: shift,
				Locked:         isLocked,
				Reason:         fmt.Sprintf("%s %s shortage candidate", date, shift),
			},
			score: score,
		})
	}
	sortRanked(ranked)
	return toCandidates(ranked)
}

// movementScore returns the original tool's per-shift cost table: an
// unavailable nurse is skipped outright, one already on the target shift
// is skipped (nothing to move), and otherwise cost increases with how far
// the current shift is from a "natural" step toward the target.
func movementScore(nurse roster.Nurse, target roster.Shift, current roster.Shift, missingTeam roster.Team) (score int, skip bool) {
	switch target {
	case roster.Day:
		if !nurse.DayOkBool() {
			return 0, true
		}
		switch current {
		case roster.Off:
			return 0, false
		case roster.Late:
			return 1, false
		case roster.Day:
			return 0, true
		default:
			return 2, false
		}
	case roster.Late:
		if !nurse.LateOkBool() {
			return 0, true
		}
		switch current {
		case roster.Off:
			return 0, false
		case roster.Day:
			return 1, false
		case roster.Late:
			return 0, true
		default:
			return 2, false
		}
	case roster.Night:
		if !nurse.NightOkBool() {
			return 0, true
		}
		if missingTeam != "" && nurse.Team != missingTeam {
			return 0, true
		}
		switch current {
		case roster.Off:
			return 0, false
		case roster.Day:
			return 1, false
		case roster.Late:
			return 2, false
		case roster.Night:
			return 0, true
		default:
			return 3, false
		}
	default:
		return 0, true
	}
}

// candidatesForExcess ranks every nurse currently on shift as an
// off-loading candidate, following _candidate_pool_for_excess: anyone
// not currently on the shift in question is irrelevant.
func candidatesForExcess(date string, shift roster.Shift, assignLookup map[string]map[string]roster.Shift, locked map[[2]string]bool) []Candidate {
	var ranked []rankedCandidate
	for nid, perDate := range assignLookup {
		current, ok := perDate[date]
		if !ok || current != shift {
			continue
		}
		isLocked := locked[[2]string{nid, date}]
		suggested := roster.Off
		if shift == roster.Off {
			suggested = roster.Day
		}
		ranked = append(ranked, rankedCandidate{
			Candidate: Candidate{
				NurseID:        nid,
				CurrentShift:   current,
				SuggestedShift: suggested,
				Locked:         isLocked,
				Reason:         fmt.Sprintf("%s %s excess adjustment candidate", date, shift),
			},
			score: 0,
		})
	}
	sortRanked(ranked)
	return toCandidates(ranked)
}

// sortRanked orders by (score, locked, nurse ID), same tie-break order
// _candidate_pool_for_shortage/_excess use: cheapest move first, unlocked
// nurses preferred over locked ones at equal cost, ID as the final tie-break.
func sortRanked(ranked []rankedCandidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score < b.score
		}
		if a.Locked != b.Locked {
			return !a.Locked
		}
		return a.NurseID < b.NurseID
	})
}

func toCandidates(ranked []rankedCandidate) []Candidate {
	out := make([]Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.Candidate
	}
	return out
}

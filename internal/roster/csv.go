package roster

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// AssignmentsToCSV serializes assignments to the nurse_id,date,shift CSV
// shape the original nurse-shift tool exported (SPEC_FULL.md C.1).
func AssignmentsToCSV(assignments []Assignment) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"nurse_id", "date", "shift"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range assignments {
		if err := w.Write([]string{a.NurseID, a.Date, string(a.Shift)}); err != nil {
			return "", fmt.Errorf("write assignment row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// AssignmentsFromCSV parses the inverse of AssignmentsToCSV. Empty input
// yields no assignments and no error; otherwise the first row must be a
// header naming the three columns, in any order, and only those columns
// are read.
func AssignmentsFromCSV(data string) ([]Assignment, error) {
	r := csv.NewReader(strings.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse assignments csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	idx := map[string]int{}
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}
	nurseIdx, okN := idx["nurse_id"]
	dateIdx, okD := idx["date"]
	shiftIdx, okS := idx["shift"]
	if !okN || !okD || !okS {
		return nil, fmt.Errorf("assignments csv missing required header columns")
	}
	out := make([]Assignment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= nurseIdx || len(row) <= dateIdx || len(row) <= shiftIdx {
			continue
		}
		out = append(out, Assignment{
			NurseID: row[nurseIdx],
			Date:    row[dateIdx],
			Shift:   Shift(row[shiftIdx]),
		})
	}
	return out, nil
}

package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentsCSVRoundTrip(t *testing.T) {
	original := []Assignment{
		{NurseID: "1", Date: "2025-10-01", Shift: Day},
		{NurseID: "2", Date: "2025-10-01", Shift: Night},
		{NurseID: "1", Date: "2025-10-02", Shift: Off},
	}

	csvText, err := AssignmentsToCSV(original)
	require.NoError(t, err)

	parsed, err := AssignmentsFromCSV(csvText)
	require.NoError(t, err)

	assert.ElementsMatch(t, original, parsed)
}

func TestAssignmentsFromCSVMissingHeader(t *testing.T) {
	_, err := AssignmentsFromCSV("a,b,c\n1,2,3\n")
	require.Error(t, err)
}

func TestTriValuedCapability(t *testing.T) {
	n := Nurse{}
	assert.True(t, n.DayOkBool(), "unspecified day_ok defaults to true")

	n.DayOk = BoolPtr(false)
	assert.False(t, n.DayOkBool())
}
